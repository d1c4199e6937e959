package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/crawl"
	"github.com/fwojciec/websum/fs"
	"github.com/fwojciec/websum/gemini"
	"github.com/fwojciec/websum/goquery"
	"github.com/fwojciec/websum/htmltomarkdown"
	wshttp "github.com/fwojciec/websum/http"
	wsprom "github.com/fwojciec/websum/prometheus"
	"github.com/fwojciec/websum/readability"
	"github.com/fwojciec/websum/rod"
	wslog "github.com/fwojciec/websum/slog"
	"github.com/fwojciec/websum/trafilatura"
	"github.com/google/uuid"
)

// relaxedHostMarker is the host substring followed with --relaxed-hosts.
const relaxedHostMarker = "docs"

// resolveConfig returns the effective configuration: defaults, then the
// YAML file, then the environment, then flags.
func (c *CrawlCmd) resolveConfig(getenv func(string) string) (Config, error) {
	cfg, err := LoadConfig(c.Config)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}

	if c.Output != "" {
		cfg.Output.Dir = c.Output
	}
	if c.Format != "" {
		cfg.Output.Format = c.Format
	}
	if c.Readable {
		cfg.Output.Readable = true
	}
	if c.Limit >= 0 {
		limit := c.Limit
		cfg.Crawler.PageLimit = &limit
	}
	if c.Depth >= 0 {
		cfg.Crawler.MaxDepth = c.Depth
	}
	if c.Concurrency > 0 {
		cfg.Crawler.Concurrency = c.Concurrency
	}
	if c.Fetcher != "" {
		cfg.Crawler.Fetcher = c.Fetcher
	}
	if c.Extractor != "" {
		cfg.Crawler.Extractor = c.Extractor
	}
	if c.RelaxedHosts && cfg.Crawler.RelaxedHosts == "" {
		cfg.Crawler.RelaxedHosts = relaxedHostMarker
	}
	if c.Sitemap {
		cfg.Crawler.Sitemap = true
	}
	if c.Robots {
		cfg.Crawler.RespectRobots = true
	}
	if c.CountTokens {
		cfg.Crawler.CountTokens = true
	}
	if c.Delay >= 0 {
		cfg.RateLimit.DelaySeconds = c.Delay
	}
	if c.NoCache {
		cfg.Cache.Enabled = false
	}
	if c.CacheFile != "" {
		cfg.Cache.File = c.CacheFile
	}
	if c.CacheDB != "" {
		cfg.Cache.DB = c.CacheDB
	}

	return cfg, cfg.Validate()
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx

	cfg, err := c.resolveConfig(deps.Getenv)
	if err != nil {
		return err
	}
	format, _ := websum.ParseSummaryFormat(cfg.Output.Format)

	runID := uuid.NewString()
	logger := newLogger(deps.Stderr, c.Debug, c.LogFormat).With("run", runID)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return websum.Errorf(websum.ESTORAGE, "create output directory %s: %v", cfg.Output.Dir, err)
	}

	orch := &crawl.Orchestrator{
		Metadata:    goquery.NewMetadataExtractor(),
		Links:       c.linkResolver(cfg),
		RateLimiter: crawl.NewDelayLimiter(cfg.Delay()),
		Logger:      logger,
		MaxDepth:    cfg.Crawler.MaxDepth,
		PageLimit:   cfg.Crawler.PageLimit,
		Concurrency: cfg.Crawler.Concurrency,
		Retry: crawl.RetryPolicy{
			MaxAttempts: cfg.RateLimit.MaxRetries,
			Base:        cfg.RateLimit.BackoffFactor,
			Unit:        time.Second,
		},
		Progress: progressPrinter(deps),
	}

	// Cache
	var cache websum.URLCache
	if cfg.Cache.Enabled || c.MergeCache != "" {
		var closeCache func() error
		cache, closeCache, err = openCache(cfg.Cache.DB, cfg.Cache.File, cfg.Output.Dir)
		if err != nil {
			return err
		}
		defer closeCache()
		cache = wslog.NewLoggingCache(cache, logger)

		if c.MergeCache != "" {
			n, err := mergeCacheFile(deps, cache, c.MergeCache)
			if err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Merged %d cache entries from %s\n", n, c.MergeCache)
		}
	}
	if cfg.Cache.Enabled {
		orch.Cache = cache
	}

	// Writer
	var writer websum.KnowledgeBaseWriter
	switch format {
	case websum.FormatCondensed:
		writer = fs.NewUnifiedWriter(cfg.Output.Dir, fs.WithSummaryOptions(cfg.SummaryOptions()))
	default:
		var opts []fs.StandardOption
		if cfg.Output.Readable {
			opts = append(opts, fs.WithReadableText())
		}
		writer = fs.NewStandardWriter(cfg.Output.Dir, opts...)
	}
	orch.Writer = wslog.NewLoggingWriter(writer, logger)

	// Fetching
	extractor := newExtractor(cfg.Crawler.Extractor)
	fetcher, err := c.openFetcher(ctx, cfg, deps, logger, orch.RateLimiter)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	var pfOpts []crawl.PageFetcherOption
	if extractor != nil {
		pfOpts = append(pfOpts, crawl.WithExtractor(extractor))
	}
	orch.Pages = wslog.NewLoggingPageFetcher(
		crawl.NewPageFetcher(fetcher, htmltomarkdown.NewConverter(), pfOpts...),
		logger,
	)

	client := &http.Client{Timeout: cfg.Crawler.Timeout}
	robots := wshttp.NewRobotsPolicy(client, wshttp.WithRobotsUserAgent(userAgent(cfg)))
	if cfg.Crawler.RespectRobots {
		orch.Robots = robots
	}
	if cfg.Crawler.Sitemap {
		orch.Sitemap = wslog.NewLoggingURLSource(
			wshttp.NewSitemapSource(client, wshttp.WithRobots(robots)),
			logger,
		)
	}

	dedupe, err := crawl.NewContentDeduper(crawl.DefaultDedupeSize)
	if err != nil {
		return err
	}
	orch.Dedupe = dedupe

	if cfg.Crawler.CountTokens {
		counter, err := gemini.NewTokenCounter(cfg.Crawler.TokenModel)
		if err != nil {
			return err
		}
		orch.TokenCounter = counter
	}

	metrics := wsprom.NewMetrics()
	orch.Metrics = metrics
	if c.MetricsAddr != "" {
		stop, err := serveMetrics(c.MetricsAddr, metrics, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	// Crawl
	report := &websum.CrawlReport{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		Seeds:     c.URLs,
		Format:    string(format),
	}
	result, runErr := c.crawl(ctx, orch)
	report.FinishedAt = time.Now().UTC()
	if result != nil {
		fillReport(report, result)
	}
	if cache != nil {
		if stats, err := cache.Stats(ctx); err == nil {
			report.Cache = stats
		}
	}

	if path, err := fs.WriteReport(cfg.Output.Dir, report); err != nil {
		logger.Error("write crawl report", "err", err)
	} else {
		logger.Debug("crawl report written", "path", path)
	}

	printSummary(deps, report)
	return runErr
}

// crawl runs the orchestrator over the seeds. In test mode every seed is
// fetched on its own and the first failure is returned after all seeds ran.
func (c *CrawlCmd) crawl(ctx context.Context, orch *crawl.Orchestrator) (*crawl.Result, error) {
	if !c.Test {
		return orch.Run(ctx, c.URLs)
	}

	total := &crawl.Result{}
	var firstErr error
	for _, seed := range c.URLs {
		result, err := orch.RunSingle(ctx, seed)
		if result != nil {
			mergeResult(total, result)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return total, firstErr
}

// openFetcher builds the raw fetcher selected by cfg. With "auto" the
// first seed is probed through limiter to choose between plain HTTP and
// the browser; a browser that fails to launch falls back to HTTP. A zero
// page limit skips the probe and uses HTTP.
func (c *CrawlCmd) openFetcher(ctx context.Context, cfg Config, deps *Dependencies, logger *slog.Logger, limiter websum.DomainLimiter) (websum.Fetcher, error) {
	httpFetcher := wshttp.NewFetcher(
		wshttp.WithTimeout(cfg.Crawler.Timeout),
		wshttp.WithUserAgent(userAgent(cfg)),
	)

	switch cfg.Crawler.Fetcher {
	case FetcherHTTP:
		return wslog.NewLoggingFetcher(httpFetcher, logger), nil
	case FetcherRod:
		browser, err := c.newBrowser(cfg)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return wslog.NewLoggingFetcher(browser, logger), nil
	}

	if limit := cfg.Crawler.PageLimit; limit != nil && *limit == 0 {
		return wslog.NewLoggingFetcher(httpFetcher, logger), nil
	}
	browser, err := c.newBrowser(cfg)
	if err != nil {
		logger.Warn("browser unavailable, using http fetcher", "err", err)
		return wslog.NewLoggingFetcher(httpFetcher, logger), nil
	}
	seed := websum.EnsureScheme(c.URLs[0])
	chosen := crawl.ProbeFetcher(ctx, seed, limiter, httpFetcher, browser, goquery.NewProber(), trafilatura.NewExtractor())
	if chosen == websum.Fetcher(httpFetcher) {
		_ = browser.Close()
		logger.Info("fetcher selected", "fetcher", FetcherHTTP, "probe", seed)
	} else {
		logger.Info("fetcher selected", "fetcher", FetcherRod, "probe", seed)
	}
	return wslog.NewLoggingFetcher(chosen, logger), nil
}

func (c *CrawlCmd) newBrowser(cfg Config) (*rod.Fetcher, error) {
	opts := []rod.FetcherOption{
		rod.WithFetchTimeout(cfg.Crawler.Timeout),
		rod.WithRenderDelay(cfg.Crawler.RenderDelay),
		rod.WithPageBudget(cfg.Crawler.BrowserRecycle),
	}
	if cfg.Crawler.UserAgent != "" {
		opts = append(opts, rod.WithUserAgent(cfg.Crawler.UserAgent))
	}
	return rod.NewFetcher(opts...)
}

func (c *CrawlCmd) linkResolver(cfg Config) *goquery.LinkResolver {
	opts := []goquery.LinkResolverOption{goquery.WithDenylist(websum.DefaultLinkDenylist())}
	if cfg.Crawler.RelaxedHosts != "" {
		opts = append(opts, goquery.WithRelaxedHosts(cfg.Crawler.RelaxedHosts))
	}
	return goquery.NewLinkResolver(opts...)
}

func newExtractor(name string) websum.Extractor {
	switch name {
	case ExtractorTrafilatura:
		return trafilatura.NewExtractor(trafilatura.WithoutComments())
	case ExtractorReadability:
		return readability.NewExtractor()
	}
	return nil
}

func userAgent(cfg Config) string {
	if cfg.Crawler.UserAgent != "" {
		return cfg.Crawler.UserAgent
	}
	return wshttp.DefaultUserAgent
}

// serveMetrics exposes metrics on addr until the returned stop function runs.
func serveMetrics(addr string, metrics *wsprom.Metrics, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, websum.Errorf(websum.EINVALID, "listen on %s: %v", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func progressPrinter(deps *Dependencies) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		url := websum.ShortenURL(e.URL, 60)
		switch e.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d] saved %s -> %s\n", e.Completed, url, e.Path)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d] failed %s: %v\n", e.Completed, url, e.Error)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "[%d] skipped %s: %v\n", e.Completed, url, e.Error)
		}
	}
}

func mergeResult(dst, src *crawl.Result) {
	dst.Processed += src.Processed
	dst.Succeeded += src.Succeeded
	dst.Failed += src.Failed
	dst.Skipped += src.Skipped
	dst.Duplicates += src.Duplicates
	dst.Cached += src.Cached
	dst.Disallowed += src.Disallowed
	dst.Bytes += src.Bytes
	dst.Tokens += src.Tokens
	dst.Files = append(dst.Files, src.Files...)
	dst.FailedURLs = append(dst.FailedURLs, src.FailedURLs...)
	dst.StorageErrors = append(dst.StorageErrors, src.StorageErrors...)
}

func fillReport(r *websum.CrawlReport, res *crawl.Result) {
	r.Processed = res.Processed
	r.Succeeded = res.Succeeded
	r.Failed = res.Failed
	r.Skipped = res.Skipped
	r.Duplicates = res.Duplicates
	r.Cached = res.Cached
	r.Disallowed = res.Disallowed
	r.Bytes = res.Bytes
	r.Tokens = res.Tokens
	r.Files = res.Files
	r.FailedURLs = res.FailedURLs
	r.StorageErrors = res.StorageErrors
}

func printSummary(deps *Dependencies, r *websum.CrawlReport) {
	fmt.Fprint(deps.Stdout, r.Summary())
	for _, e := range r.StorageErrors {
		fmt.Fprintf(deps.Stderr, "storage error: %s\n", e)
	}
}
