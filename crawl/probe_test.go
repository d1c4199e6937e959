package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/crawl"
	"github.com/fwojciec/websum/mock"
	"github.com/stretchr/testify/assert"
)

func lengthExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html, _ string) (*websum.ExtractResult, error) {
			return &websum.ExtractResult{ContentHTML: html}, nil
		},
	}
}

func staticFetcher(html string, err error) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, err
		},
	}
}

func TestContentDiffers(t *testing.T) {
	t.Parallel()

	t.Run("returns true when rendered content is more than 50% longer", func(t *testing.T) {
		t.Parallel()
		assert.True(t, crawl.ContentDiffers("short content", "much longer content from the browser", "https://x.com", lengthExtractor()))
	})

	t.Run("returns false when content lengths are similar", func(t *testing.T) {
		t.Parallel()
		assert.False(t, crawl.ContentDiffers("some content here", "similar size text", "https://x.com", lengthExtractor()))
	})

	t.Run("returns false when rendered content is exactly 50% longer", func(t *testing.T) {
		t.Parallel()
		assert.False(t, crawl.ContentDiffers("1234567890", "123456789012345", "https://x.com", lengthExtractor()))
	})

	t.Run("returns true when http content is empty", func(t *testing.T) {
		t.Parallel()
		assert.True(t, crawl.ContentDiffers("", "content", "https://x.com", lengthExtractor()))
	})

	t.Run("returns true on extraction error", func(t *testing.T) {
		t.Parallel()
		extractor := &mock.Extractor{
			ExtractFn: func(_, _ string) (*websum.ExtractResult, error) {
				return nil, errors.New("boom")
			},
		}
		assert.True(t, crawl.ContentDiffers("a", "b", "https://x.com", extractor))
	})
}

func TestProbeFetcher(t *testing.T) {
	t.Parallel()

	knownProber := func(required bool) *mock.Prober {
		return &mock.Prober{
			DetectFn:     func(string) string { return "Gen" },
			RequiresJSFn: func(string) (bool, bool) { return required, true },
		}
	}
	unknownProber := &mock.Prober{
		DetectFn:     func(string) string { return "" },
		RequiresJSFn: func(string) (bool, bool) { return false, false },
	}

	t.Run("returns http fetcher for server-rendered generators", func(t *testing.T) {
		t.Parallel()
		httpF := staticFetcher("<p>static</p>", nil)
		browserF := staticFetcher("<p>rendered</p>", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://x.com", nil, httpF, browserF, knownProber(false), lengthExtractor())

		assert.Same(t, httpF, got)
	})

	t.Run("returns browser fetcher for client-rendered generators", func(t *testing.T) {
		t.Parallel()
		httpF := staticFetcher("<p>loading</p>", nil)
		browserF := staticFetcher("<p>rendered</p>", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://x.com", nil, httpF, browserF, knownProber(true), lengthExtractor())

		assert.Same(t, browserF, got)
	})

	t.Run("falls back to browser when http fetch fails", func(t *testing.T) {
		t.Parallel()
		httpF := staticFetcher("", errors.New("connection refused"))
		browserF := staticFetcher("<p>rendered</p>", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://x.com", nil, httpF, browserF, unknownProber, lengthExtractor())

		assert.Same(t, browserF, got)
	})

	t.Run("compares content for unknown generators", func(t *testing.T) {
		t.Parallel()
		httpF := staticFetcher("<p>x</p>", nil)
		browserF := staticFetcher("<p>a great deal of rendered documentation</p>", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://x.com", nil, httpF, browserF, unknownProber, lengthExtractor())

		assert.Same(t, browserF, got)
	})

	t.Run("waits on the limiter before each fetch", func(t *testing.T) {
		t.Parallel()
		var hosts []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, host string) error {
				hosts = append(hosts, host)
				return nil
			},
		}
		httpF := staticFetcher("<p>x</p>", nil)
		browserF := staticFetcher("<p>x</p>", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://x.com/docs", limiter, httpF, browserF, unknownProber, lengthExtractor())

		assert.Same(t, httpF, got)
		assert.Equal(t, []string{"x.com", "x.com"}, hosts)
	})

	t.Run("keeps http without fetching when the wait fails", func(t *testing.T) {
		t.Parallel()
		limiter := &mock.DomainLimiter{
			WaitFn: func(context.Context, string) error { return context.Canceled },
		}
		fetched := false
		httpF := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				fetched = true
				return "", nil
			},
		}
		browserF := staticFetcher("<p>rendered</p>", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://x.com", limiter, httpF, browserF, unknownProber, lengthExtractor())

		assert.Same(t, httpF, got)
		assert.False(t, fetched)
	})

	t.Run("keeps http when browser fetch fails", func(t *testing.T) {
		t.Parallel()
		httpF := staticFetcher("<p>x</p>", nil)
		browserF := staticFetcher("", errors.New("no browser"))

		got := crawl.ProbeFetcher(context.Background(), "https://x.com", nil, httpF, browserF, unknownProber, lengthExtractor())

		assert.Same(t, httpF, got)
	})
}
