package websum

import "context"

// Fetcher retrieves raw HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// PageFetcher is the fetch collaborator consumed by the crawl loop.
// Given a URL it reports raw HTML, generated Markdown, discovered links
// and whether the fetch succeeded.
type PageFetcher interface {
	// FetchPage fetches one page. Fetch failures are reported through
	// FetchResult.Success and FetchResult.Error; the returned error is
	// reserved for cancellation and misconfiguration.
	FetchPage(ctx context.Context, url string) (*FetchResult, error)
}

// URLSource discovers additional entry points for a site, e.g. from a sitemap.
type URLSource interface {
	Discover(ctx context.Context, baseURL string) ([]string, error)
}

// RobotsPolicy decides whether a URL may be crawled.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}

// Prober inspects a page to decide how its site should be fetched.
type Prober interface {
	// Detect returns the name of the site generator, or "" when unknown.
	Detect(html string) string
	// RequiresJS reports whether pages of the generator need a browser to
	// render. known is false for generators without a recorded answer.
	RequiresJS(generator string) (required, known bool)
}
