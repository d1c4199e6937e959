// Package sqlite stores the visited-URL cache in a SQLite database so
// several crawls can share one history.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fwojciec/websum"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// timeLayout is fixed width and UTC so stored timestamps order correctly
// as text, which lets MAX() pick the later visit during a merge.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	url        TEXT PRIMARY KEY,
	last_visit TEXT NOT NULL,
	hits       INTEGER NOT NULL DEFAULT 1 CHECK (hits >= 1)
);
CREATE INDEX IF NOT EXISTS idx_visits_last_visit ON visits(last_visit);
`

// DB is a cache database handle.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB returns a handle for the database at path. Nothing is opened
// until Open is called.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects to the database, applies connection pragmas and creates
// the visits table when missing.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return websum.Errorf(websum.ESTORAGE, "open %s: %v", db.path, err)
	}
	// One writer at a time is all SQLite allows.
	conn.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if db.path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, stmt := range append(pragmas, schema) {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return websum.Errorf(websum.ESTORAGE, "prepare %s: %v", db.path, err)
		}
	}

	db.conn = conn
	return nil
}

// Close closes the connection. Closing an unopened DB is a no-op.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// QueryRowContext runs a single-row query against the open connection.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse visit time %q: %w", value, err)
	}
	return t, nil
}
