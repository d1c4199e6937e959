package websum_test

import (
	"testing"
	"time"

	"github.com/fwojciec/websum"
	"github.com/stretchr/testify/assert"
)

func TestCrawlReport_Summary(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("counts and size", func(t *testing.T) {
		t.Parallel()

		r := websum.CrawlReport{
			StartedAt:  start,
			FinishedAt: start.Add(1500 * time.Millisecond),
			Processed:  5,
			Succeeded:  3,
			Failed:     1,
			Skipped:    1,
			Cached:     2,
			Bytes:      1536,
		}

		assert.Equal(t, 1500*time.Millisecond, r.Duration())
		assert.Equal(t,
			"Crawled 5 pages in 1.5s: 3 saved, 1 failed, 1 skipped, 0 duplicates, 2 cached\n"+
				"Wrote 1.5 KB of Markdown\n",
			r.Summary())
	})

	t.Run("small output and tokens", func(t *testing.T) {
		t.Parallel()

		r := websum.CrawlReport{StartedAt: start, FinishedAt: start, Bytes: 512, Tokens: 1500}
		assert.Contains(t, r.Summary(), "Wrote 512 B of Markdown (~2k tokens)\n")
	})

	t.Run("megabytes and few tokens", func(t *testing.T) {
		t.Parallel()

		r := websum.CrawlReport{StartedAt: start, FinishedAt: start, Bytes: 2 * 1024 * 1024, Tokens: 500}
		assert.Contains(t, r.Summary(), "Wrote 2.0 MB of Markdown (~500 tokens)\n")
	})
}
