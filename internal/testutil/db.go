// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/db"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMongoRequired is returned by MongoTestURI when MONGO_TEST_REQUIRED is set
// but no MONGO_TEST_URI is given.
var ErrMongoRequired = errors.New("MONGO_TEST_REQUIRED is set but MONGO_TEST_URI is empty")

// MongoTestURI returns the server database tests run against. An empty URI
// means those tests are skipped, unless MONGO_TEST_REQUIRED asks for them.
func MongoTestURI() (string, error) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" && os.Getenv("MONGO_TEST_REQUIRED") != "" {
		return "", ErrMongoRequired
	}
	return uri, nil
}

// SetupTestDB connects to MONGO_TEST_URI and returns a fresh database with
// the application indexes. The test is skipped when the variable is unset
// (run `make test-mongo` to include it); the database is dropped on cleanup.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri, err := MongoTestURI()
	if err != nil {
		t.Fatal(err)
	}
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping database test (see make test-mongo)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("ping test mongo: %v", err)
	}

	name := fmt.Sprintf("dormguru_test_%s", primitive.NewObjectID().Hex())
	mdb := client.Database(name)
	if err := db.EnsureIndexes(ctx, mdb); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mdb.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return mdb
}

// TestContext returns a context with a timeout suited to database tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
