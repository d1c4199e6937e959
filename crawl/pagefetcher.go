package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/websum"
)

// Ensure PageFetcher implements websum.PageFetcher at compile time.
var _ websum.PageFetcher = (*PageFetcher)(nil)

// PageFetcher implements websum.PageFetcher by orchestrating
// fetching, extraction, and conversion through injected dependencies.
type PageFetcher struct {
	fetcher   websum.Fetcher
	extractor websum.Extractor
	converter websum.Converter
}

// PageFetcherOption configures a PageFetcher.
type PageFetcherOption func(*PageFetcher)

// WithExtractor sets the main-content extractor applied before conversion.
// Without one the whole page is converted.
func WithExtractor(e websum.Extractor) PageFetcherOption {
	return func(pf *PageFetcher) {
		pf.extractor = e
	}
}

// NewPageFetcher creates a new PageFetcher with the given dependencies.
func NewPageFetcher(fetcher websum.Fetcher, converter websum.Converter, opts ...PageFetcherOption) *PageFetcher {
	pf := &PageFetcher{
		fetcher:   fetcher,
		converter: converter,
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf
}

// FetchPage fetches url and converts its main content to Markdown.
// Fetch failures are reported in the result; only cancellation is
// returned as an error.
func (pf *PageFetcher) FetchPage(ctx context.Context, url string) (*websum.FetchResult, error) {
	html, err := pf.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return &websum.FetchResult{URL: url, Error: err.Error()}, nil
	}

	content := html
	if pf.extractor != nil {
		// Extraction failure falls back to the raw page.
		if extracted, err := pf.extractor.Extract(html, url); err == nil && strings.TrimSpace(extracted.ContentHTML) != "" {
			content = extracted.ContentHTML
		}
	}

	result := &websum.FetchResult{URL: url, Success: true, HTML: html}
	markdown, err := pf.converter.Convert(content, url)
	if err != nil {
		result.Error = "convert: " + err.Error()
		return result, nil
	}
	result.Markdown = markdown
	return result, nil
}
