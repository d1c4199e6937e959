package mock

import (
	"context"

	"github.com/fwojciec/websum"
)

var (
	_ websum.Fetcher      = (*Fetcher)(nil)
	_ websum.PageFetcher  = (*PageFetcher)(nil)
	_ websum.URLSource    = (*URLSource)(nil)
	_ websum.RobotsPolicy = (*RobotsPolicy)(nil)
)

// Fetcher is a mock implementation of websum.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// PageFetcher is a mock implementation of websum.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string) (*websum.FetchResult, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string) (*websum.FetchResult, error) {
	return f.FetchPageFn(ctx, url)
}

// URLSource is a mock implementation of websum.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverFn(ctx, baseURL)
}

// RobotsPolicy is a mock implementation of websum.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}

var _ websum.Prober = (*Prober)(nil)

// Prober is a mock implementation of websum.Prober.
type Prober struct {
	DetectFn     func(html string) string
	RequiresJSFn func(generator string) (bool, bool)
}

func (p *Prober) Detect(html string) string {
	return p.DetectFn(html)
}

func (p *Prober) RequiresJS(generator string) (bool, bool) {
	return p.RequiresJSFn(generator)
}
