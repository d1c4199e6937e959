package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/websum"
)

// Ensure LoggingCache implements websum.URLCache.
var _ websum.URLCache = (*LoggingCache)(nil)

// LoggingCache wraps a URLCache with debug logging.
type LoggingCache struct {
	next   websum.URLCache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next websum.URLCache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Has delegates to the wrapped cache and logs hits.
func (c *LoggingCache) Has(ctx context.Context, url string) (ok bool, err error) {
	defer func() {
		if err != nil {
			c.logger.Warn("cache lookup", "url", url, "err", err)
		} else if ok {
			c.logger.Debug("cache hit", "url", url)
		}
	}()
	return c.next.Has(ctx, url)
}

// Add delegates to the wrapped cache.
func (c *LoggingCache) Add(ctx context.Context, url string) (err error) {
	defer func() {
		if err != nil {
			c.logger.Warn("cache add", "url", url, "err", err)
		}
	}()
	return c.next.Add(ctx, url)
}

// Stats delegates to the wrapped cache.
func (c *LoggingCache) Stats(ctx context.Context) (websum.CacheStats, error) {
	return c.next.Stats(ctx)
}

// Entries delegates to the wrapped cache.
func (c *LoggingCache) Entries(ctx context.Context) (map[string]websum.CacheEntry, error) {
	return c.next.Entries(ctx)
}

// Merge delegates to the wrapped cache and logs the merge size.
func (c *LoggingCache) Merge(ctx context.Context, other map[string]websum.CacheEntry) (n int, err error) {
	defer func(begin time.Time) {
		c.logger.Info("cache merge",
			"entries", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Merge(ctx, other)
}
