package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/toyland-demo/toyland"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// MongoURLEnvVar names the database the DB-backed tests connect to.
	MongoURLEnvVar = "TOYLAND_TEST_MONGO_URL"
	skipEnvVar     = "SKIP_INTEGRATION_TESTS"
)

var dbCounter int64

// NewTestDB returns a freshly named database on the test MongoDB server. The
// database is dropped when the test finishes. Tests calling NewTestDB are
// skipped when no server answers.
func NewTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	if skip, _ := strconv.ParseBool(os.Getenv(skipEnvVar)); skip {
		t.Skipf("%s is set, skipping test that needs a database", skipEnvVar)
	}

	url := os.Getenv(MongoURLEnvVar)
	if url == "" {
		url = toyland.DefaultDatabaseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("cannot construct client for '%s': %s", url, err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("no database reachable at '%s': %s", url, err)
	}

	name := fmt.Sprintf("toyland_test_%d_%d", os.Getpid(), atomic.AddInt64(&dbCounter, 1))
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}
