// Package testutil provides shared test helpers for store-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/gridbook/gridbook/internal/storage"
)

// SetupTestStore creates a migrated in-memory SQLite store and registers its
// cleanup with the test.
func SetupTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
