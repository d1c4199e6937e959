package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/websum/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSet_Mark(t *testing.T) {
	t.Parallel()

	s := bloom.NewURLSet(1000, 0.001)

	assert.False(t, s.Has("https://example.com/docs/intro"))
	assert.True(t, s.Mark("https://example.com/docs/intro"))
	assert.False(t, s.Mark("https://example.com/docs/intro"), "second mark is not new")
	assert.True(t, s.Has("https://example.com/docs/intro"))
	assert.False(t, s.Has("https://example.com/docs/guide"))
}

func TestURLSet_Len(t *testing.T) {
	t.Parallel()

	s := bloom.NewURLSet(1000, 0.001)
	require.Zero(t, s.Len())

	for _, u := range []string{"/a", "/b", "/c", "/a", "/a"} {
		s.Mark("https://example.com" + u)
	}

	assert.InDelta(t, 3, s.Len(), 1)
}

func TestURLSet_Defaults(t *testing.T) {
	t.Parallel()

	def := bloom.NewURLSet(bloom.DefaultCapacity, bloom.DefaultFalsePositiveRate)

	assert.Equal(t, def.SizeBytes(), bloom.NewURLSet(0, 0).SizeBytes())
	assert.Equal(t, def.SizeBytes(), bloom.NewURLSet(0, 1.5).SizeBytes())
	assert.Less(t, bloom.NewURLSet(100, 0.01).SizeBytes(), def.SizeBytes())
}

func TestURLSet_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 10_000
	s := bloom.NewURLSet(n, 0.01)
	for i := range n {
		s.Mark(fmt.Sprintf("https://example.com/docs/page-%d", i))
	}

	hits := 0
	for i := range n {
		if s.Has(fmt.Sprintf("https://example.com/blog/post-%d", i)) {
			hits++
		}
	}

	// Twice the configured rate leaves room for variance.
	assert.Less(t, float64(hits)/n, 0.02)
}

func TestURLSet_ConcurrentMark(t *testing.T) {
	t.Parallel()

	s := bloom.NewURLSet(10_000, 0.0001)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				// Every worker marks the same 500 URLs.
				if s.Mark(fmt.Sprintf("https://example.com/p/%d", i)) {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, fresh, "each URL is new exactly once")
}
