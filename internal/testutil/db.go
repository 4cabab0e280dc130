package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zehsscwu/unionhub/internal/app/system/indexes"
)

// SetupTestDB connects to the MongoDB instance named by UNIONHUB_TEST_MONGO_URI
// and returns a database unique to the calling test. The database is dropped
// when the test finishes. Tests that call this are skipped when the variable
// is not set, so the rest of the suite runs without a database.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("UNIONHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("UNIONHUB_TEST_MONGO_URI not set; skipping database test")
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

	dbName := fmt.Sprintf("unionhub_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	// The unique indexes are part of the behavior under test (duplicate
	// member numbers, one seat per works body).
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure test indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database %s: %v", dbName, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a timeout generous enough for test
// database operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
