package websum

import "time"

// Page outcome labels reported to CrawlMetrics.
const (
	PageSucceeded = "succeeded"
	PageFailed    = "failed"
	PageSkipped   = "skipped"
	PageDuplicate = "duplicate"
)

// CrawlMetrics receives crawl instrumentation events.
type CrawlMetrics interface {
	ObserveFetch(d time.Duration, err error)
	IncRetry()
	IncPage(outcome string)
	IncError(code string)
}
