// Package bloom tracks the URLs a crawl has already queued in a fixed
// amount of memory, at the cost of rare false positives.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Sizing used when NewURLSet is given zero values.
const (
	DefaultCapacity          = 100_000
	DefaultFalsePositiveRate = 1e-4
)

// URLSet is a probabilistic set of URLs. A URL reported absent was never
// added; a URL reported present was added or is a false positive.
// URLSet is safe for concurrent use.
type URLSet struct {
	mu sync.Mutex
	bf *bloom.BloomFilter
}

// NewURLSet sizes a set for capacity URLs at the given false positive
// rate. Zero arguments select DefaultCapacity and DefaultFalsePositiveRate.
func NewURLSet(capacity uint, fpRate float64) *URLSet {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	return &URLSet{bf: bloom.NewWithEstimates(capacity, fpRate)}
}

// Mark adds url and reports whether it was new to the set.
func (s *URLSet) Mark(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.bf.TestAndAddString(url)
}

// Has reports whether url may have been marked.
func (s *URLSet) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bf.TestString(url)
}

// Len estimates how many distinct URLs have been marked.
func (s *URLSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.bf.ApproximatedSize())
}

// SizeBytes is the memory held by the underlying bit array.
func (s *URLSet) SizeBytes() int {
	return int(s.bf.Cap() / 8)
}
