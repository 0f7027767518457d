package service_test

import (
	"errors"
	"testing"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"
	"github.com/justinong00/mern-dormguru-sub000/internal/testutil"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUniversityService_DuplicateName(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := e.fx.CreateUser(ctx, "Admin", "admin@test.com", true)

	in := service.UniversityData{Name: "Sunway University", Address: "Bandar Sunway"}
	if _, err := e.unis.Create(ctx, admin.ID, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in.Name = "sunway university"
	if _, err := e.unis.Create(ctx, admin.ID, in); !errors.Is(err, service.ErrAlreadyExists) {
		t.Errorf("duplicate err = %v, want ErrAlreadyExists", err)
	}

	n, _ := e.db.Collection("universities").CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("universities = %d, want 1", n)
	}
}

func TestUniversityService_UpdateKeepsCreator(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := e.fx.CreateUser(ctx, "Creator", "c@test.com", true)
	editor := e.fx.CreateUser(ctx, "Editor", "e@test.com", true)
	uni := e.fx.CreateUniversity(ctx, "Taylor's", creator.ID)

	city := "Subang Jaya"
	got, err := e.unis.Update(ctx, editor.ID, uni.ID, service.UpdateUniversityData{City: &city})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.CreatedBy != creator.ID {
		t.Error("createdBy must not change on update")
	}
	if got.UpdatedBy == nil || *got.UpdatedBy != editor.ID {
		t.Errorf("updatedBy = %v, want %s", got.UpdatedBy, editor.ID.Hex())
	}
	if got.City != city {
		t.Errorf("city = %q", got.City)
	}
}

func TestUniversityService_DeleteCascades(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, dorm := e.seedDorm(ctx, "Hall A")
	student := e.fx.CreateUser(ctx, "Student", "s@test.com", false)
	if _, err := e.reviews.Create(ctx, student.ID, e.review(dorm.ID, 4)); err != nil {
		t.Fatalf("create review: %v", err)
	}

	sum, err := e.unis.Delete(ctx, dorm.ParentUniversity)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sum.DeletedDorms != 1 || sum.DeletedReviews != 1 {
		t.Errorf("summary = %+v", sum)
	}

	if _, err := e.unis.Get(ctx, dorm.ParentUniversity); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if _, err := e.dorms.Get(ctx, dorm.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("dorm should be gone, err = %v", err)
	}
	if _, err := e.unis.Delete(ctx, dorm.ParentUniversity); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestDormService_CreateAndGet(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := e.fx.CreateUser(ctx, "Admin", "admin@test.com", true)
	uni := e.fx.CreateUniversity(ctx, "Monash", admin.ID)

	in := service.DormData{
		Name:             "Sunway Geo",
		Address:          "Jalan Lagoon",
		RoomsOffered:     []string{"Single", "Twin", "Single"},
		ParentUniversity: uni.ID.Hex(),
		DormType:         "Co-ed",
		City:             "Petaling Jaya",
	}
	d, err := e.dorms.Create(ctx, admin.ID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.NumberOfReviews != 0 || d.AverageRating != 0 {
		t.Errorf("new dorm stats = (%d, %v)", d.NumberOfReviews, d.AverageRating)
	}
	if len(d.RoomsOffered) != 2 {
		t.Errorf("roomsOffered = %v, want deduplicated", d.RoomsOffered)
	}

	view, err := e.dorms.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.University == nil || view.University.Name != "Monash" {
		t.Errorf("university not populated: %+v", view.University)
	}

	if _, err := e.dorms.Create(ctx, admin.ID, in); !errors.Is(err, service.ErrAlreadyExists) {
		t.Errorf("duplicate err = %v, want ErrAlreadyExists", err)
	}

	in.Name = "Other Dorm"
	in.ParentUniversity = primitive.NewObjectID().Hex()
	if _, err := e.dorms.Create(ctx, admin.ID, in); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("missing university err = %v, want ErrNotFound", err)
	}
	in.ParentUniversity = "bogus"
	if _, err := e.dorms.Create(ctx, admin.ID, in); !errors.Is(err, service.ErrInvalidID) {
		t.Errorf("malformed university err = %v, want ErrInvalidID", err)
	}
}

func TestDormService_DeleteCascadesReviews(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, dorm := e.seedDorm(ctx, "Hall Z")
	student := e.fx.CreateUser(ctx, "Student", "s@test.com", false)
	for _, r := range []float64{3, 4} {
		if _, err := e.reviews.Create(ctx, student.ID, e.review(dorm.ID, r)); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	sum, err := e.dorms.Delete(ctx, dorm.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sum.DeletedReviews != 2 {
		t.Errorf("deleted reviews = %d, want 2", sum.DeletedReviews)
	}
	n, _ := e.db.Collection("reviews").CountDocuments(ctx, bson.M{"dorm": dorm.ID})
	if n != 0 {
		t.Errorf("reviews left = %d", n)
	}
}

func TestStatsService_HomeStatsAndSearch(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, dorm := e.seedDorm(ctx, "Cambridge Court")
	student := e.fx.CreateUser(ctx, "Student", "s@test.com", false)
	if _, err := e.reviews.Create(ctx, student.ID, e.review(dorm.ID, 5)); err != nil {
		t.Fatalf("create review: %v", err)
	}

	hs, err := e.stats.HomeStats(ctx)
	if err != nil {
		t.Fatalf("HomeStats: %v", err)
	}
	if hs.Reviews != 1 || hs.Universities != 1 || hs.Dorms != 1 {
		t.Errorf("home stats = %+v", hs)
	}

	tests := []struct {
		q    string
		want int
	}{
		{"cambridge", 1},
		{"COURT", 1},
		{"uni of", 1},
		{"test city", 1},
		{"nowhere", 0},
		{"(", 0},
	}
	for _, tt := range tests {
		got, err := e.stats.Search(ctx, tt.q)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.q, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) = %d results, want %d", tt.q, len(got), tt.want)
		}
	}
}

func TestAdminMaintenance_DetectsAndRepairsDrift(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, dorm := e.seedDorm(ctx, "Hall Drift")
	student := e.fx.CreateUser(ctx, "Student", "s@test.com", false)
	if _, err := e.reviews.Create(ctx, student.ID, e.review(dorm.ID, 4)); err != nil {
		t.Fatalf("create review: %v", err)
	}

	// corrupt the cached values behind the service's back
	if _, err := e.db.Collection("dorms").UpdateByID(ctx, dorm.ID, bson.M{"$set": bson.M{"numberOfReviews": 7, "averageRating": 1.0}}); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	// and leave a review pointing at a dorm that does not exist
	if _, err := e.db.Collection("reviews").InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "dorm": primitive.NewObjectID(), "rating": 3.0}); err != nil {
		t.Fatalf("orphan: %v", err)
	}

	sum, err := e.maint.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum.StaleDorms != 1 || sum.OrphanReviews != 1 || sum.TotalDorms != 1 {
		t.Errorf("summary = %+v", sum)
	}

	res, err := e.maint.RecomputeRatings(ctx, &models.RecomputeRequest{})
	if err != nil {
		t.Fatalf("RecomputeRatings: %v", err)
	}
	if res.ProcessedDorms != 1 || res.UpdatedDorms != 1 || res.Parallelism != 2 {
		t.Errorf("recompute = %+v", res)
	}
	assertStats(t, loadDorm(t, e, dorm.ID), 1, 4.0)

	pruned, err := e.maint.PruneOrphans(ctx)
	if err != nil {
		t.Fatalf("PruneOrphans: %v", err)
	}
	if pruned.DeletedReviews != 1 || pruned.DeletedDorms != 0 {
		t.Errorf("prune = %+v", pruned)
	}

	sum, err = e.maint.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum.StaleDorms != 0 || sum.OrphanReviews != 0 {
		t.Errorf("summary after repair = %+v", sum)
	}
}
