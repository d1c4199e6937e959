// Package crawl provides breadth-first site crawling orchestration.
// It coordinates fetching, metadata and link extraction, Markdown
// processing and knowledge-base writes for every page reachable from a
// set of seed URLs.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/websum"
	"golang.org/x/sync/errgroup"
)

// Orchestrator crawls a site breadth-first from one or more seeds.
// Pages, Writer and the Markdown they produce are required; every other
// collaborator is optional. A nil Frontier means a fresh NewFrontier
// per run.
type Orchestrator struct {
	Pages        websum.PageFetcher
	Metadata     websum.MetadataExtractor
	Links        websum.LinkExtractor
	Writer       websum.KnowledgeBaseWriter
	Cache        websum.URLCache
	RateLimiter  websum.DomainLimiter
	Robots       websum.RobotsPolicy
	Sitemap      websum.URLSource
	Dedupe       *ContentDeduper
	Frontier     websum.URLFrontier
	Metrics      websum.CrawlMetrics
	TokenCounter websum.TokenCounter
	Logger       *slog.Logger

	// MaxDepth is the deepest link level fetched; seeds are depth 0.
	MaxDepth int
	// PageLimit caps processed pages, successful or not. Nil is unlimited.
	PageLimit *int
	// Retry applies to each fetch. The zero value means DefaultRetryPolicy.
	Retry RetryPolicy
	// Concurrency is the number of pages fetched at once. Values below 2
	// fetch sequentially.
	Concurrency int
	// Progress, if set, receives an event for every processed page.
	Progress ProgressFunc
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Processed     int
	Succeeded     int
	Failed        int
	Skipped       int
	Duplicates    int
	Cached        int
	Disallowed    int
	Bytes         int
	Tokens        int
	Files         []string
	FailedURLs    []string
	StorageErrors []string
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Depth     int
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// fetchOutcome is the result of fetching one queued URL.
type fetchOutcome struct {
	result *websum.FetchResult
	err    error
}

// crawlState is the bookkeeping owned by the crawl loop goroutine.
type crawlState struct {
	frontier websum.URLFrontier
	progress *websum.CrawlProgress
	result   *Result
}

// Run crawls from seeds until the frontier is exhausted, the page limit
// is reached or ctx is canceled. On cancellation the partial result is
// returned together with the context error.
func (o *Orchestrator) Run(ctx context.Context, seeds []string) (*Result, error) {
	if o.Pages == nil {
		return nil, websum.Errorf(websum.EINVALID, "orchestrator requires a page fetcher")
	}
	if o.Writer == nil {
		return nil, websum.Errorf(websum.EINVALID, "orchestrator requires a writer")
	}

	frontier := o.Frontier
	if frontier == nil {
		frontier = NewFrontier(0, 0)
	}
	state := &crawlState{
		frontier: frontier,
		progress: websum.NewCrawlProgress(o.PageLimit),
		result:   &Result{},
	}

	var normalized []string
	for _, seed := range seeds {
		seed = websum.NormalizeURL(websum.EnsureScheme(strings.TrimSpace(seed)))
		if seed == "" {
			continue
		}
		normalized = append(normalized, seed)
		state.frontier.Push(websum.QueuedURL{URL: seed})
	}
	if len(normalized) == 0 {
		return nil, websum.Errorf(websum.EINVALID, "no seed URLs")
	}
	if state.progress.ShouldContinue() {
		o.seedFromSitemaps(ctx, state.frontier, normalized)
	}

	log := o.logger()
	log.Info("crawl started", "seeds", normalized, "max_depth", o.MaxDepth, "limit", limitAttr(o.PageLimit))
	o.notify(ProgressEvent{Type: ProgressStarted, Total: limitAttr(o.PageLimit)})

	for {
		if err := ctx.Err(); err != nil {
			log.Warn("crawl canceled", "processed", state.result.Processed)
			return state.result, err
		}
		if !state.progress.ShouldContinue() {
			log.Info("page limit reached", "limit", *o.PageLimit)
			break
		}

		batch := o.nextBatch(ctx, state)
		if len(batch) == 0 {
			break
		}

		outcomes := o.fetchBatch(ctx, batch)
		if err := ctx.Err(); err != nil {
			log.Warn("crawl canceled", "processed", state.result.Processed)
			return state.result, err
		}
		for i, item := range batch {
			o.handle(ctx, state, item, outcomes[i])
		}
	}

	log.Info("crawl finished",
		"processed", state.result.Processed,
		"succeeded", state.result.Succeeded,
		"failed", state.result.Failed,
		"skipped", state.result.Skipped,
		"duplicates", state.result.Duplicates,
		"queued", state.frontier.Len(),
		"duration", state.progress.Elapsed(),
	)
	o.notify(ProgressEvent{
		Type:      ProgressFinished,
		Completed: state.result.Processed,
		Total:     limitAttr(o.PageLimit),
	})
	return state.result, nil
}

// RunSingle fetches and writes one page without following links or
// consulting the cache. It returns an error when the page could not be
// fetched, processed or written.
func (o *Orchestrator) RunSingle(ctx context.Context, url string) (*Result, error) {
	single := *o
	single.MaxDepth = 0
	single.Cache = nil
	single.Sitemap = nil
	single.Frontier = nil
	limit := 1
	single.PageLimit = &limit

	result, err := single.Run(ctx, []string{url})
	if err != nil {
		return result, err
	}
	switch {
	case result.Failed > 0:
		return result, websum.Errorf(websum.EFETCH, "failed to fetch %s", url)
	case len(result.StorageErrors) > 0:
		return result, websum.Errorf(websum.ESTORAGE, "failed to write %s: %s", url, result.StorageErrors[0])
	case result.Skipped > 0:
		return result, websum.Errorf(websum.EPROCESSING, "no content extracted from %s", url)
	case result.Succeeded == 0 && result.Duplicates == 0:
		return result, websum.Errorf(websum.EFETCH, "%s was not crawled", url)
	}
	return result, nil
}

// seedFromSitemaps enqueues sitemap entries of each seed at depth 1.
func (o *Orchestrator) seedFromSitemaps(ctx context.Context, frontier websum.URLFrontier, seeds []string) {
	if o.Sitemap == nil || o.MaxDepth < 1 {
		return
	}
	for _, seed := range seeds {
		urls, err := o.Sitemap.Discover(ctx, seed)
		if err != nil {
			o.logger().Warn("sitemap discovery failed", "url", seed, "error", err)
			continue
		}
		added := 0
		for _, u := range urls {
			if frontier.Push(websum.QueuedURL{URL: u, Depth: 1, Parent: seed}) {
				added++
			}
		}
		o.logger().Info("sitemap discovered", "url", seed, "urls", len(urls), "queued", added)
	}
}

// nextBatch dequeues up to one batch of URLs that pass the depth, robots
// and cache checks. Accepted URLs are recorded in the cache before they
// are fetched.
func (o *Orchestrator) nextBatch(ctx context.Context, state *crawlState) []websum.QueuedURL {
	size := max(o.Concurrency, 1)
	if remaining := state.progress.Remaining(); remaining >= 0 {
		size = min(size, remaining)
	}

	log := o.logger()
	var batch []websum.QueuedURL
	for len(batch) < size {
		if ctx.Err() != nil {
			return batch
		}
		item, ok := state.frontier.Pop()
		if !ok {
			break
		}
		if item.Depth > o.MaxDepth {
			continue
		}
		if o.Robots != nil && !o.Robots.Allowed(ctx, item.URL) {
			state.result.Disallowed++
			log.Debug("disallowed by robots.txt", "url", item.URL)
			continue
		}
		if o.Cache != nil {
			visited, err := o.Cache.Has(ctx, item.URL)
			if err != nil {
				log.Warn("cache lookup failed", "url", item.URL, "error", err)
			}
			if visited {
				state.result.Cached++
				log.Debug("already visited", "url", item.URL)
				continue
			}
			if err := o.Cache.Add(ctx, item.URL); err != nil {
				log.Warn("cache update failed", "url", item.URL, "error", err)
			}
		}
		batch = append(batch, item)
	}
	return batch
}

// fetchBatch fetches every URL in batch, concurrently when it holds more
// than one. Outcomes are returned in batch order.
func (o *Orchestrator) fetchBatch(ctx context.Context, batch []websum.QueuedURL) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(batch))
	if len(batch) == 1 {
		outcomes[0] = o.fetch(ctx, batch[0])
		return outcomes
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range batch {
		g.Go(func() error {
			outcomes[i] = o.fetch(gctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// fetch fetches one URL with retries. Every attempt first waits for the
// host's rate limit.
func (o *Orchestrator) fetch(ctx context.Context, item websum.QueuedURL) fetchOutcome {
	limited := func(ctx context.Context, url string) (*websum.FetchResult, error) {
		if o.RateLimiter != nil {
			if err := o.RateLimiter.Wait(ctx, websum.Host(url)); err != nil {
				return nil, err
			}
		}
		return o.Pages.FetchPage(ctx, url)
	}

	metrics := o.metrics()
	onRetry := func(url string, attempt int, reason string) {
		metrics.IncRetry()
		o.logger().Warn("retrying fetch", "url", url, "attempt", attempt, "reason", reason)
	}

	begin := time.Now()
	result, err := FetchWithRetryDelays(ctx, item.URL, limited, onRetry, o.retryPolicy().Delays())
	fetchErr := err
	if err == nil && !result.Success {
		fetchErr = websum.Errorf(websum.EFETCH, "%s", result.Error)
	}
	metrics.ObserveFetch(time.Since(begin), fetchErr)
	return fetchOutcome{result: result, err: err}
}

// handle records the outcome of one fetched URL. It runs on the crawl
// loop goroutine only.
func (o *Orchestrator) handle(ctx context.Context, state *crawlState, item websum.QueuedURL, outcome fetchOutcome) {
	state.progress.Update()
	state.progress.CurrentDepth = item.Depth
	state.result.Processed++

	if outcome.err != nil {
		o.fail(state, item, outcome.err)
		return
	}
	if !outcome.result.Success {
		o.fail(state, item, websum.Errorf(websum.EFETCH, "%s", outcome.result.Error))
		return
	}

	log := o.logger()
	metrics := o.metrics()

	page := websum.NewPageResult(outcome.result)
	if page.URL == "" {
		page.URL = item.URL
	}
	if o.Metadata != nil && page.HTML != "" {
		page.ApplyMetadata(o.Metadata.Extract(page.HTML))
	}
	page.Markdown = websum.ProcessMarkdownContent(websum.CleanMarkdown(page.Markdown))

	if strings.TrimSpace(page.Markdown) == "" {
		reason := "no content extracted"
		if page.Error != "" {
			reason = page.Error
		}
		err := websum.Errorf(websum.EPROCESSING, "%s: %s", item.URL, reason)
		state.result.Skipped++
		metrics.IncPage(websum.PageSkipped)
		metrics.IncError(websum.EPROCESSING)
		log.Warn("page skipped", "url", item.URL, "error", err)
		o.notify(ProgressEvent{Type: ProgressSkipped, Completed: state.result.Processed, Total: limitAttr(o.PageLimit), URL: item.URL, Depth: item.Depth, Error: err})
		return
	}

	page.Links = o.discoverLinks(item.URL, outcome.result)
	if item.Depth < o.MaxDepth {
		queued := 0
		for _, link := range page.Links {
			if state.frontier.Push(websum.QueuedURL{URL: link, Depth: item.Depth + 1, Parent: item.URL}) {
				queued++
			}
		}
		log.Debug("links discovered", "url", item.URL, "links", len(page.Links), "queued", queued)
	}

	if o.Dedupe != nil {
		if original, dup := o.Dedupe.Check(page.URL, page.Markdown); dup {
			state.result.Duplicates++
			metrics.IncPage(websum.PageDuplicate)
			log.Info("duplicate content", "url", item.URL, "original", original)
			o.notify(ProgressEvent{Type: ProgressSkipped, Completed: state.result.Processed, Total: limitAttr(o.PageLimit), URL: item.URL, Depth: item.Depth})
			return
		}
	}

	path, err := o.Writer.Write(ctx, page)
	if err != nil {
		state.result.StorageErrors = append(state.result.StorageErrors, fmt.Sprintf("%s: %v", item.URL, err))
		metrics.IncPage(websum.PageFailed)
		metrics.IncError(websum.ESTORAGE)
		log.Error("storage error", "url", item.URL, "error", err)
		o.notify(ProgressEvent{Type: ProgressFailed, Completed: state.result.Processed, Total: limitAttr(o.PageLimit), URL: item.URL, Depth: item.Depth, Error: err})
		return
	}

	state.result.Succeeded++
	state.result.Files = append(state.result.Files, path)
	state.result.Bytes += len(page.Markdown)
	if o.TokenCounter != nil {
		if tokens, err := o.TokenCounter.CountTokens(ctx, page.Markdown); err == nil {
			state.result.Tokens += tokens
		} else {
			log.Debug("token count failed", "url", item.URL, "error", err)
		}
	}
	metrics.IncPage(websum.PageSucceeded)
	log.Info("page saved", "url", item.URL, "depth", item.Depth, "path", path, "bytes", len(page.Markdown))
	o.notify(ProgressEvent{Type: ProgressCompleted, Completed: state.result.Processed, Total: limitAttr(o.PageLimit), URL: item.URL, Depth: item.Depth, Path: path})
}

// fail records a page that could not be fetched.
func (o *Orchestrator) fail(state *crawlState, item websum.QueuedURL, err error) {
	state.result.Failed++
	state.result.FailedURLs = append(state.result.FailedURLs, item.URL)
	o.metrics().IncPage(websum.PageFailed)
	o.metrics().IncError(websum.ErrorCode(err))
	o.logger().Warn("fetch failed", "url", item.URL, "depth", item.Depth, "error", err)
	o.notify(ProgressEvent{Type: ProgressFailed, Completed: state.result.Processed, Total: limitAttr(o.PageLimit), URL: item.URL, Depth: item.Depth, Error: err})
}

// discoverLinks returns the same-site links of a fetched page. Links
// reported by the fetch collaborator are filtered; otherwise they are
// extracted from the page HTML.
func (o *Orchestrator) discoverLinks(pageURL string, result *websum.FetchResult) []string {
	if o.Links == nil {
		return result.Links
	}
	if len(result.Links) > 0 {
		return o.Links.FilterLinks(result.Links, pageURL)
	}
	if result.HTML == "" {
		return nil
	}
	links, err := o.Links.ExtractLinks(result.HTML, pageURL)
	if err != nil {
		o.logger().Debug("link extraction failed", "url", pageURL, "error", err)
		return nil
	}
	return links
}

func (o *Orchestrator) retryPolicy() RetryPolicy {
	if o.Retry.MaxAttempts <= 0 {
		return DefaultRetryPolicy()
	}
	return o.Retry
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *Orchestrator) metrics() websum.CrawlMetrics {
	if o.Metrics == nil {
		return nopMetrics{}
	}
	return o.Metrics
}

func (o *Orchestrator) notify(event ProgressEvent) {
	if o.Progress != nil {
		o.Progress(event)
	}
}

// limitAttr returns the page limit, or 0 when unlimited.
func limitAttr(limit *int) int {
	if limit == nil {
		return 0
	}
	return *limit
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(time.Duration, error) {}
func (nopMetrics) IncRetry()                         {}
func (nopMetrics) IncPage(string)                    {}
func (nopMetrics) IncError(string)                   {}
