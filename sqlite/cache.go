package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/websum"
)

// Compile-time interface verification.
var _ websum.URLCache = (*URLCache)(nil)

// URLCache implements websum.URLCache using SQLite.
type URLCache struct {
	db *DB
}

// NewURLCache creates a new URLCache.
func NewURLCache(db *DB) *URLCache {
	return &URLCache{db: db}
}

// Has reports whether url has been visited.
func (c *URLCache) Has(ctx context.Context, url string) (bool, error) {
	var n int
	err := c.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE url = ?`, url).Scan(&n)
	if err != nil {
		return false, websum.Errorf(websum.ESTORAGE, "lookup %s: %v", url, err)
	}
	return n > 0, nil
}

// Add records a visit to url.
func (c *URLCache) Add(ctx context.Context, url string) error {
	_, err := c.db.conn.ExecContext(ctx, `
		INSERT INTO visits (url, last_visit, hits)
		VALUES (?, ?, 1)
		ON CONFLICT(url) DO UPDATE SET
			last_visit = excluded.last_visit,
			hits = hits + 1
	`, url, formatTime(time.Now()))
	if err != nil {
		return websum.Errorf(websum.ESTORAGE, "record %s: %v", url, err)
	}
	return nil
}

// Stats returns the number of cached URLs and total visits.
func (c *URLCache) Stats(ctx context.Context) (websum.CacheStats, error) {
	var stats websum.CacheStats
	err := c.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM visits
	`).Scan(&stats.TotalURLs, &stats.TotalVisits)
	if err != nil {
		return websum.CacheStats{}, websum.Errorf(websum.ESTORAGE, "cache stats: %v", err)
	}
	return stats, nil
}

// Entries returns all cached entries.
func (c *URLCache) Entries(ctx context.Context) (map[string]websum.CacheEntry, error) {
	rows, err := c.db.conn.QueryContext(ctx, `SELECT url, last_visit, hits FROM visits`)
	if err != nil {
		return nil, websum.Errorf(websum.ESTORAGE, "list cache: %v", err)
	}
	defer rows.Close()

	entries := make(map[string]websum.CacheEntry)
	for rows.Next() {
		var (
			url       string
			visitedAt string
			entry     websum.CacheEntry
		)
		if err := rows.Scan(&url, &visitedAt, &entry.Count); err != nil {
			return nil, websum.Errorf(websum.ESTORAGE, "scan cache row: %v", err)
		}
		if entry.Timestamp, err = parseTime(visitedAt); err != nil {
			return nil, websum.Errorf(websum.ESTORAGE, "%s: %v", url, err)
		}
		entries[url] = entry
	}
	return entries, rows.Err()
}

// Merge folds other into the cache in a single transaction. Counts of
// shared URLs are summed and the later timestamp is kept.
func (c *URLCache) Merge(ctx context.Context, other map[string]websum.CacheEntry) (int, error) {
	tx, err := c.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, websum.Errorf(websum.ESTORAGE, "begin merge: %v", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO visits (url, last_visit, hits)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			last_visit = MAX(last_visit, excluded.last_visit),
			hits = hits + excluded.hits
	`)
	if err != nil {
		return 0, websum.Errorf(websum.ESTORAGE, "prepare merge: %v", err)
	}
	defer stmt.Close()

	for url, entry := range other {
		if _, err := stmt.ExecContext(ctx, url, formatTime(entry.Timestamp), max(entry.Count, 1)); err != nil {
			return 0, websum.Errorf(websum.ESTORAGE, "merge %s: %v", url, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, websum.Errorf(websum.ESTORAGE, "commit merge: %v", err)
	}
	return len(other), nil
}
