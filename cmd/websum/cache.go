package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/fs"
	"github.com/fwojciec/websum/sqlite"
)

// DefaultCacheFilename is the JSON cache file written in the output directory.
const DefaultCacheFilename = "url_cache.json"

// openCache opens the SQLite cache when dbPath is set and the JSON cache
// file otherwise. The returned close function is never nil.
func openCache(dbPath, filePath, outputDir string) (websum.URLCache, func() error, error) {
	if dbPath != "" {
		db := sqlite.NewDB(dbPath)
		if err := db.Open(); err != nil {
			return nil, nil, err
		}
		return sqlite.NewURLCache(db), db.Close, nil
	}
	if filePath == "" {
		filePath = filepath.Join(outputDir, DefaultCacheFilename)
	}
	cache, err := fs.OpenURLCache(filePath)
	if err != nil {
		return nil, nil, err
	}
	return cache, func() error { return nil }, nil
}

// Run prints the number of cached URLs and the sum of their visits.
func (c *CacheStatsCmd) Run(deps *Dependencies) error {
	cache, closeCache, err := openCache(c.CacheDB, c.CacheFile, c.Output)
	if err != nil {
		return err
	}
	defer closeCache()

	stats, err := cache.Stats(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "URLs:   %d\n", stats.TotalURLs)
	fmt.Fprintf(deps.Stdout, "Visits: %d\n", stats.TotalVisits)
	return nil
}

// Run folds the entries of File into the cache.
func (c *CacheMergeCmd) Run(deps *Dependencies) error {
	cache, closeCache, err := openCache(c.CacheDB, c.CacheFile, c.Output)
	if err != nil {
		return err
	}
	defer closeCache()

	n, err := mergeCacheFile(deps, cache, c.File)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Merged %d entries from %s\n", n, c.File)
	return nil
}

// mergeCacheFile reads a JSON cache file and merges it into cache.
func mergeCacheFile(deps *Dependencies, cache websum.URLCache, path string) (int, error) {
	entries, err := fs.ReadCacheFile(path)
	if err != nil {
		return 0, err
	}
	return cache.Merge(deps.Ctx, entries)
}
