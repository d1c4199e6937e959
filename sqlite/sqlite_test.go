package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	pragma := func(t *testing.T, db *sqlite.DB, name string) string {
		t.Helper()
		var v string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA "+name).Scan(&v))
		return v
	}

	t.Run("in-memory database starts with an empty visits table", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(sqlite.MemoryPath)
		require.NoError(t, db.Open())
		t.Cleanup(func() { db.Close() })

		var n int
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM visits").Scan(&n))
		assert.Zero(t, n)
		assert.Equal(t, "memory", pragma(t, db, "journal_mode"))
	})

	t.Run("file database uses WAL and survives reopening", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "visits.db")
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		assert.Equal(t, "wal", pragma(t, db, "journal_mode"))
		require.NoError(t, sqlite.NewURLCache(db).Add(ctx, "https://example.com/docs"))
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		t.Cleanup(func() { db.Close() })

		has, err := sqlite.NewURLCache(db).Has(ctx, "https://example.com/docs")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("unwritable path is a storage error", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewDB("/nonexistent/dir/visits.db").Open()

		assert.Equal(t, websum.ESTORAGE, websum.ErrorCode(err))
	})

	t.Run("closing an unopened database is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, sqlite.NewDB(sqlite.MemoryPath).Close())
	})
}
