package websum

import "time"

// CrawlProgress tracks how many pages a crawl has processed.
// Both successful and failed pages count towards the limit.
type CrawlProgress struct {
	PagesProcessed int
	PageLimit      *int
	CurrentDepth   int
	StartTime      time.Time
}

// NewCrawlProgress returns progress with an optional page limit.
// A nil limit means unlimited.
func NewCrawlProgress(limit *int) *CrawlProgress {
	return &CrawlProgress{
		PageLimit: limit,
		StartTime: time.Now(),
	}
}

// ShouldContinue reports whether more pages may be processed.
func (p *CrawlProgress) ShouldContinue() bool {
	return p.PageLimit == nil || p.PagesProcessed < *p.PageLimit
}

// LimitReached reports whether a page limit is set and has been hit.
func (p *CrawlProgress) LimitReached() bool {
	return p.PageLimit != nil && p.PagesProcessed >= *p.PageLimit
}

// Remaining returns how many pages may still be processed, or -1 when
// there is no limit.
func (p *CrawlProgress) Remaining() int {
	if p.PageLimit == nil {
		return -1
	}
	return max(*p.PageLimit-p.PagesProcessed, 0)
}

// Update records one processed page.
func (p *CrawlProgress) Update() {
	p.PagesProcessed++
}

// Elapsed returns the time since the crawl started.
func (p *CrawlProgress) Elapsed() time.Duration {
	return time.Since(p.StartTime)
}
