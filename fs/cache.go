package fs

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/fwojciec/websum"
)

// Ensure URLCache implements websum.URLCache at compile time.
var _ websum.URLCache = (*URLCache)(nil)

// URLCache is a visited-URL cache persisted as a JSON object mapping
// each URL to {"timestamp", "count"}. The file is rewritten after
// every change.
type URLCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]websum.CacheEntry
	now     func() time.Time
}

// OpenURLCache loads the cache at path. A missing or malformed file
// starts an empty cache.
func OpenURLCache(path string) (*URLCache, error) {
	entries, err := ReadCacheFile(path)
	switch websum.ErrorCode(err) {
	case "":
	case websum.ENOTFOUND, websum.EPARSE:
		entries = make(map[string]websum.CacheEntry)
	default:
		return nil, err
	}
	return &URLCache{path: path, entries: entries, now: time.Now}, nil
}

// ReadCacheFile reads a cache file. A missing file is ENOTFOUND and
// invalid JSON is EPARSE.
func ReadCacheFile(path string) (map[string]websum.CacheEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, websum.Errorf(websum.ENOTFOUND, "cache file %s not found", path)
	} else if err != nil {
		return nil, websum.Errorf(websum.ESTORAGE, "read cache file %s: %v", path, err)
	}

	entries := make(map[string]websum.CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, websum.Errorf(websum.EPARSE, "parse cache file %s: %v", path, err)
	}
	if entries == nil {
		entries = make(map[string]websum.CacheEntry)
	}
	return entries, nil
}

// Path returns the location of the cache file.
func (c *URLCache) Path() string {
	return c.path
}

// Has reports whether url has been visited.
func (c *URLCache) Has(ctx context.Context, url string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[url]
	return ok, nil
}

// Add records a visit to url and persists the cache.
func (c *URLCache) Add(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[url]
	entry.Count++
	entry.Timestamp = c.now()
	c.entries[url] = entry
	return c.save()
}

// Stats returns the number of cached URLs and total visits.
func (c *URLCache) Stats(ctx context.Context) (websum.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websum.ComputeStats(c.entries), nil
}

// Entries returns a copy of all entries.
func (c *URLCache) Entries(ctx context.Context) (map[string]websum.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.entries), nil
}

// Merge folds other into the cache and persists it.
func (c *URLCache) Merge(ctx context.Context, other map[string]websum.CacheEntry) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := websum.MergeEntries(c.entries, other)
	if err := c.save(); err != nil {
		return 0, err
	}
	return n, nil
}

// save writes the cache file. Callers hold c.mu.
func (c *URLCache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return websum.Errorf(websum.ESTORAGE, "encode cache: %v", err)
	}
	if _, err := writeFile(c.path, data); err != nil {
		return websum.Errorf(websum.ESTORAGE, "write cache file %s: %v", c.path, err)
	}
	return nil
}
