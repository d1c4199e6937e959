// Package slog wraps websum collaborators with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/websum"
)

// Ensure LoggingFetcher implements websum.Fetcher.
var _ websum.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   websum.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next websum.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingPageFetcher implements websum.PageFetcher.
var _ websum.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher and logs each page outcome.
type LoggingPageFetcher struct {
	next   websum.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next websum.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage delegates to the wrapped fetcher. Unsuccessful pages are
// logged at warn level.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, url string) (res *websum.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		switch {
		case err != nil:
			f.logger.Warn("fetch page", append(attrs, "err", err)...)
		case res == nil || !res.Success:
			reason := "no result"
			if res != nil {
				reason = res.Error
			}
			f.logger.Warn("fetch page", append(attrs, "reason", reason)...)
		default:
			f.logger.Debug("fetch page", append(attrs, "markdown_bytes", len(res.Markdown), "links", len(res.Links))...)
		}
	}(time.Now())
	return f.next.FetchPage(ctx, url)
}
