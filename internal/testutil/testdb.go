package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/db"
	"github.com/snowoball/statusrota/internal/store"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestStore returns a document store backed by a fresh in-memory database.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	return store.NewSQLiteStore(NewTestDB(t))
}

// NewTestClient returns a configapi.Client over st.
func NewTestClient(st store.Store) *store.Local {
	return store.NewLocal(st)
}

// Seed replaces resource with records, failing the test on error.
func Seed(t *testing.T, client configapi.Client, resource configapi.Resource, records any) {
	t.Helper()
	if err := client.Replace(context.Background(), resource, records, nil); err != nil {
		t.Fatalf("seeding %s: %v", resource, err)
	}
}

// ReadRaw returns the stored document for resource.
func ReadRaw(t *testing.T, st store.Store, resource configapi.Resource) string {
	t.Helper()
	body, err := st.Read(context.Background(), resource)
	if err != nil {
		t.Fatalf("reading %s: %v", resource, err)
	}
	return string(body)
}
