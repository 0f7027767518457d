package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/config"
	"github.com/justinong00/mern-dormguru-sub000/internal/live"
	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"
	"github.com/justinong00/mern-dormguru-sub000/internal/testutil"
	"github.com/justinong00/mern-dormguru-sub000/internal/txn"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testEnv struct {
	db  *mongo.Database
	fx  *testutil.Fixtures
	hub *live.Hub

	auth    *service.AuthService
	unis    *service.UniversityService
	dorms   *service.DormService
	reviews *service.ReviewService
	maint   *service.AdminMaintenanceService
	stats   *service.StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mdb := testutil.SetupTestDB(t)
	log := zap.NewNop()

	userRepo := repository.NewUserRepository(mdb)
	uniRepo := repository.NewUniversityRepository(mdb)
	dormRepo := repository.NewDormRepository(mdb)
	reviewRepo := repository.NewReviewRepository(mdb)
	tx := txn.New(mdb.Client(), log)
	hub := live.NewHub(log)

	cfg := &config.Config{MaintenanceParallelism: 2}

	return &testEnv{
		db:      mdb,
		fx:      testutil.NewFixtures(t, mdb),
		hub:     hub,
		auth:    service.NewAuthService(userRepo, service.NewTokenIssuer("test-secret", time.Hour), log),
		unis:    service.NewUniversityService(uniRepo, dormRepo, reviewRepo, tx, log),
		dorms:   service.NewDormService(dormRepo, uniRepo, reviewRepo, tx, log),
		reviews: service.NewReviewService(reviewRepo, dormRepo, tx, hub, log),
		maint:   service.NewAdminMaintenanceService(cfg, mdb, dormRepo, reviewRepo, tx, hub, log),
		stats:   service.NewStatsService(reviewRepo, uniRepo, dormRepo, log),
	}
}

// seedDorm creates an admin, a university and a dorm.
func (e *testEnv) seedDorm(ctx context.Context, name string) (models.User, models.Dorm) {
	admin := e.fx.CreateUser(ctx, "Admin", "admin-"+primitive.NewObjectID().Hex()+"@test.com", true)
	uni := e.fx.CreateUniversity(ctx, "Uni of "+name, admin.ID)
	dorm := e.fx.CreateDorm(ctx, name, uni.ID, admin.ID)
	return admin, dorm
}

func (e *testEnv) review(dormID primitive.ObjectID, rating float64) service.CreateReviewData {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	return service.CreateReviewData{
		Rating:      rating,
		Title:       "Stay report",
		Comment:     "Quiet floors and a decent kitchen.",
		Dorm:        dormID.Hex(),
		RoomsStayed: []string{"Single"},
		FromDate:    from,
		ToDate:      from.AddDate(0, 6, 0),
	}
}
