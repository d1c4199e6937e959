package mock

import (
	"context"

	"github.com/fwojciec/websum"
)

var _ websum.URLCache = (*URLCache)(nil)

// URLCache is a mock implementation of websum.URLCache.
type URLCache struct {
	HasFn     func(ctx context.Context, url string) (bool, error)
	AddFn     func(ctx context.Context, url string) error
	StatsFn   func(ctx context.Context) (websum.CacheStats, error)
	EntriesFn func(ctx context.Context) (map[string]websum.CacheEntry, error)
	MergeFn   func(ctx context.Context, other map[string]websum.CacheEntry) (int, error)
}

func (c *URLCache) Has(ctx context.Context, url string) (bool, error) {
	return c.HasFn(ctx, url)
}

func (c *URLCache) Add(ctx context.Context, url string) error {
	return c.AddFn(ctx, url)
}

func (c *URLCache) Stats(ctx context.Context) (websum.CacheStats, error) {
	return c.StatsFn(ctx)
}

func (c *URLCache) Entries(ctx context.Context) (map[string]websum.CacheEntry, error) {
	return c.EntriesFn(ctx)
}

func (c *URLCache) Merge(ctx context.Context, other map[string]websum.CacheEntry) (int, error) {
	return c.MergeFn(ctx, other)
}
