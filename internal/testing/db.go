// Package testing provides testing utilities and helpers for the twostocks project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/twostocks/internal/clientdata"
	"github.com/aristath/twostocks/internal/database"
)

// NewTestDB creates a SQLite database under t.TempDir() and applies
// <name>_schema.sql. The connection is closed when the test finishes.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db
}

// NewCacheRepository returns a price cache repository over a fresh cache database.
func NewCacheRepository(t *testing.T) (*database.DB, *clientdata.Repository) {
	t.Helper()

	db := NewTestDB(t, "cache")
	return db, clientdata.NewRepository(db.Conn())
}
