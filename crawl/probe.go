package crawl

import (
	"context"

	"github.com/fwojciec/websum"
)

// ContentDiffers compares content extracted from plain HTTP HTML with
// content extracted from browser-rendered HTML. It returns true when the
// rendered content is more than 50% longer, suggesting JavaScript adds
// meaningful content. Extraction errors are treated as a difference.
func ContentDiffers(httpHTML, renderedHTML, pageURL string, extractor websum.Extractor) bool {
	httpResult, err := extractor.Extract(httpHTML, pageURL)
	if err != nil {
		return true
	}
	renderedResult, err := extractor.Extract(renderedHTML, pageURL)
	if err != nil {
		return true
	}

	httpLen := len(httpResult.ContentHTML)
	renderedLen := len(renderedResult.ContentHTML)

	if httpLen == 0 && renderedLen > 0 {
		return true
	}
	return float64(renderedLen) > float64(httpLen)*1.5
}

// ProbeFetcher fetches seedURL to decide whether the site needs a browser.
// Each probe fetch first waits on limiter, which may be nil. A failed
// wait keeps the HTTP fetcher.
//
// Decision flow:
//   - HTTP fetch fails: use the browser
//   - known client-rendered generator: use the browser
//   - known server-rendered generator: use HTTP
//   - unknown generator: fetch with both and compare extracted content
//
// Always returns a usable fetcher; never fails.
func ProbeFetcher(
	ctx context.Context,
	seedURL string,
	limiter websum.DomainLimiter,
	httpFetcher websum.Fetcher,
	browserFetcher websum.Fetcher,
	prober websum.Prober,
	extractor websum.Extractor,
) websum.Fetcher {
	wait := func() bool {
		return limiter == nil || limiter.Wait(ctx, websum.Host(seedURL)) == nil
	}

	if !wait() {
		return httpFetcher
	}
	httpHTML, err := httpFetcher.Fetch(ctx, seedURL)
	if err != nil {
		return browserFetcher
	}

	if requiresJS, known := prober.RequiresJS(prober.Detect(httpHTML)); known {
		if requiresJS {
			return browserFetcher
		}
		return httpFetcher
	}

	if !wait() {
		return httpFetcher
	}
	renderedHTML, err := browserFetcher.Fetch(ctx, seedURL)
	if err != nil {
		return httpFetcher
	}
	if ContentDiffers(httpHTML, renderedHTML, seedURL, extractor) {
		return browserFetcher
	}
	return httpFetcher
}
