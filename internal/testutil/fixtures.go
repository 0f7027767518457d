package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly, bypassing the services.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// CreateUser inserts an active user whose password is "password".
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, admin bool) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		IsAdmin:   admin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func (f *Fixtures) CreateUniversity(ctx context.Context, name string, owner primitive.ObjectID) models.University {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.University{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Address:   "1 Campus Road",
		City:      "Test City",
		State:     "TS",
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("universities").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test university: %v", err)
	}
	return u
}

// CreateDorm inserts a dorm offering "Single" and "Double" rooms.
func (f *Fixtures) CreateDorm(ctx context.Context, name string, uni, owner primitive.ObjectID) models.Dorm {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Dorm{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           text.Fold(name),
		Address:          "2 Hall Lane",
		RoomsOffered:     []string{"Single", "Double"},
		ParentUniversity: uni,
		DormType:         "Co-ed",
		City:             "Test City",
		State:            "TS",
		CoverPhotos:      []string{},
		CreatedBy:        owner,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("dorms").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test dorm: %v", err)
	}
	return d
}
