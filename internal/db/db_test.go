package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/db"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "words.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", db.DSN("words.db"))
	assert.Equal(t, "file:words.db?cache=shared&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", db.DSN("file:words.db?cache=shared"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := sql.Open("sqlite3", db.DSN(":memory:"))
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(ctx, sqlDB))
	require.NoError(t, db.Migrate(ctx, sqlDB))

	var versions int
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&versions))
	assert.Equal(t, 1, versions)

	for _, table := range []string{"profiles", "cards", "daily_sessions", "review_log"} {
		var name string
		err := sqlDB.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s missing", table)
	}
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordflash.db")

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	assert.NoError(t, database.PingContext(context.Background()))
}
