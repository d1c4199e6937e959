package mock

import (
	"sync"
	"time"

	"github.com/fwojciec/websum"
)

var _ websum.CrawlMetrics = (*CrawlMetrics)(nil)

// CrawlMetrics records crawl instrumentation events for assertions.
type CrawlMetrics struct {
	mu      sync.Mutex
	Fetches int
	Retries int
	Pages   map[string]int
	Errors  map[string]int
}

func (m *CrawlMetrics) ObserveFetch(_ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
}

func (m *CrawlMetrics) IncRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries++
}

func (m *CrawlMetrics) IncPage(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Pages == nil {
		m.Pages = make(map[string]int)
	}
	m.Pages[outcome]++
}

func (m *CrawlMetrics) IncError(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Errors == nil {
		m.Errors = make(map[string]int)
	}
	m.Errors[code]++
}
