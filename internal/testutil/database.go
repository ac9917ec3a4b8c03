// Package testutil provides test helpers: an in-memory cache and a fake
// REST API server with switchable failure modes.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/wallet/internal/cache"
)

// SetupTestCache creates a migrated in-memory sqlite cache that is closed
// when the test ends.
//
// Example:
//
//	store := testutil.SetupTestCache(t)
//	gw := gateway.NewAccounts(client, store)
func SetupTestCache(t *testing.T) *cache.Store {
	t.Helper()

	backend, err := cache.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	if err := backend.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run cache migrations: %v", err)
	}

	t.Cleanup(func() {
		backend.Close()
	})
	return cache.New(backend)
}

// SetupFileCache creates a JSON-file cache in a temp directory.
func SetupFileCache(t *testing.T) (*cache.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.json")
	backend, err := cache.NewFileBackend(path)
	if err != nil {
		t.Fatalf("failed to create file cache: %v", err)
	}
	t.Cleanup(func() {
		backend.Close()
	})
	return cache.New(backend), path
}
