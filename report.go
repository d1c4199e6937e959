package websum

import (
	"fmt"
	"strings"
	"time"
)

// CrawlReport summarizes one crawl run.
type CrawlReport struct {
	RunID         string     `json:"run_id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	Seeds         []string   `json:"seeds"`
	Format        string     `json:"format"`
	Processed     int        `json:"processed"`
	Succeeded     int        `json:"succeeded"`
	Failed        int        `json:"failed"`
	Skipped       int        `json:"skipped"`
	Duplicates    int        `json:"duplicates"`
	Cached        int        `json:"cached"`
	Disallowed    int        `json:"disallowed"`
	Bytes         int        `json:"bytes"`
	Tokens        int        `json:"tokens,omitempty"`
	Files         []string   `json:"files"`
	FailedURLs    []string   `json:"failed_urls"`
	StorageErrors []string   `json:"storage_errors"`
	Cache         CacheStats `json:"cache"`
}

// Duration returns how long the run took.
func (r *CrawlReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders the report as the two lines printed after a crawl.
func (r *CrawlReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crawled %d pages in %s: %d saved, %d failed, %d skipped, %d duplicates, %d cached\n",
		r.Processed, r.Duration().Round(time.Millisecond),
		r.Succeeded, r.Failed, r.Skipped, r.Duplicates, r.Cached)
	b.WriteString("Wrote " + humanBytes(r.Bytes) + " of Markdown")
	if r.Tokens > 0 {
		b.WriteString(" (" + approxTokens(r.Tokens) + ")")
	}
	b.WriteByte('\n')
	return b.String()
}

func humanBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size, unit := float64(n)/1024, "KB"
	for _, next := range []string{"MB", "GB"} {
		if size < 1024 {
			break
		}
		size, unit = size/1024, next
	}
	return fmt.Sprintf("%.1f %s", size, unit)
}

func approxTokens(n int) string {
	if n < 1000 {
		return fmt.Sprintf("~%d tokens", n)
	}
	return fmt.Sprintf("~%dk tokens", (n+500)/1000)
}
