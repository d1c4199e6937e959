// Package rod renders pages in a headless Chrome browser.
package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/websum"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements websum.Fetcher at compile time.
var _ websum.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRenderDelay is how long a page is given to settle after load
// before its HTML is captured.
const DefaultRenderDelay = 500 * time.Millisecond

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	fetchTimeout time.Duration
	userAgent    string
	maxPages     int64

	mu          sync.RWMutex
	renderDelay time.Duration
	closed      bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithRenderDelay sets the delay between page load and HTML capture.
func WithRenderDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithPageBudget sets how many pages one browser renders before it is recycled.
func WithPageBudget(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser and returns a Fetcher
// rendering pages with it. Close must be called when the Fetcher is no
// longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		fetchTimeout: DefaultFetchTimeout,
		renderDelay:  DefaultRenderDelay,
		maxPages:     DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// SetRenderDelay changes the post-load delay for subsequent fetches.
func (f *Fetcher) SetRenderDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderDelay = d
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.RLock()
	closed, delay := f.closed, f.renderDelay
	f.mu.RUnlock()
	if closed {
		return "", websum.Errorf(websum.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}

	browser := f.manager.Browser()
	if browser == nil {
		return "", websum.Errorf(websum.EFETCH, "browser unavailable")
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", websum.Errorf(websum.EFETCH, "opening page: %v", err)
	}
	defer func() {
		_ = page.Close()
		f.manager.IncrementPageCount()
	}()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", f.wrap(ctx, err)
		}
	}
	if err := page.Navigate(url); err != nil {
		return "", f.wrap(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.wrap(ctx, err)
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.wrap(ctx, err)
	}
	return html, nil
}

// wrap prefers the context error so callers can match on
// context.Canceled and context.DeadlineExceeded.
func (f *Fetcher) wrap(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return websum.Errorf(websum.EFETCH, "rendering page: %v", err)
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.manager.Close()
}
