package clientdata

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())

	assert.Equal(t, "price_cache_cleanup", job.Name())
}

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())

	now := time.Now()
	expiredAt := now.Add(-time.Hour).Unix()
	freshAt := now.Add(time.Hour).Unix()

	insertExpiredAndFresh(t, db, TablePriceHistory, "cache_key", expiredAt, freshAt)
	insertExpiredAndFresh(t, db, TableYahooQuotes, "symbol", expiredAt, freshAt)

	require.NoError(t, job.Run())

	var countAfter int
	db.QueryRow("SELECT (SELECT COUNT(*) FROM price_history) + (SELECT COUNT(*) FROM yahoo_quotes)").Scan(&countAfter)
	assert.Equal(t, 2, countAfter)
}

func TestCleanupJobPurge(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())

	deleted, err := job.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	now := time.Now()
	insertExpiredAndFresh(t, db, TablePriceHistory, "cache_key", now.Add(-time.Minute).Unix(), now.Add(time.Minute).Unix())

	deleted, err = job.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func insertExpiredAndFresh(t *testing.T, db *sql.DB, table, keyCol string, expiredAt, freshAt int64) {
	t.Helper()

	query := "INSERT INTO " + table + " (" + keyCol + ", data, expires_at) VALUES (?, ?, ?)"
	_, err := db.Exec(query, "expired_key", []byte{0xc0}, expiredAt)
	require.NoError(t, err)
	_, err = db.Exec(query, "fresh_key", []byte{0xc0}, freshAt)
	require.NoError(t, err)
}
