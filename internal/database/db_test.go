package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	db, err := New(Config{Path: path, Profile: ProfileCache, Name: "cache"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.Equal(t, "cache", db.Name())
	require.NoError(t, db.Migrate())
	// Schemas are idempotent.
	require.NoError(t, db.Migrate())

	for _, table := range []string{"price_history", "yahoo_quotes"} {
		var name string
		err := db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	require.NoError(t, db.QuickCheck(context.Background()))
	require.NoError(t, db.WALCheckpoint(""))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestMigrate_UnknownSchema(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db"), Name: "unknown"})
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, db.Migrate())
}

func TestBuildConnectionString(t *testing.T) {
	cache := buildConnectionString("/tmp/c.db", ProfileCache)
	assert.Contains(t, cache, "/tmp/c.db?_pragma=journal_mode(WAL)")
	assert.Contains(t, cache, "synchronous(OFF)")

	standard := buildConnectionString("/tmp/s.db", ProfileStandard)
	assert.Contains(t, standard, "synchronous(NORMAL)")
	assert.NotContains(t, standard, "auto_vacuum")
}
