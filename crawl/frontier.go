package crawl

import (
	"sync"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/bloom"
)

// Compile-time interface verification.
var _ websum.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter deduplication.
// Pages are visited in breadth-first order: every URL at depth d is
// dequeued before any URL discovered from it.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.URLSet
	queue []websum.QueuedURL
}

// NewFrontier creates a new Frontier sized for n expected URLs with the
// given false positive rate. A false positive drops a page from the
// crawl. Zero values select the bloom package defaults.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewURLSet(n, fpRate),
	}
}

// Push adds a URL to the back of the queue.
// Returns false if the URL has already been queued.
// URLs are normalized first, so variants differing only by fragment or a
// trailing slash are considered duplicates.
func (f *Frontier) Push(item websum.QueuedURL) bool {
	item.URL = websum.NormalizeURL(item.URL)
	if item.URL == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Mark(item.URL) {
		return false
	}
	f.queue = append(f.queue, item)
	return true
}

// Pop removes the oldest queued URL.
// Returns false if the frontier is empty.
func (f *Frontier) Pop() (websum.QueuedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return websum.QueuedURL{}, false
	}
	item := f.queue[0]
	f.queue[0] = websum.QueuedURL{}
	f.queue = f.queue[1:]
	return item, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued at some point.
func (f *Frontier) Seen(url string) bool {
	return f.seen.Has(websum.NormalizeURL(url))
}

// SeenCount returns the approximate number of distinct URLs queued so far.
func (f *Frontier) SeenCount() int {
	return f.seen.Len()
}
