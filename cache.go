package websum

import (
	"context"
	"encoding/json"
	"time"
)

// CacheEntry records when a URL was last visited and how often.
type CacheEntry struct {
	Timestamp time.Time
	Count     int
}

// cacheEntryJSON is the on-disk shape of a CacheEntry.
type cacheEntryJSON struct {
	Timestamp string `json:"timestamp"`
	Count     int    `json:"count"`
}

// cacheTimeLayouts are accepted when reading timestamps. The last two
// cover naive ISO-8601 values written without a zone.
var cacheTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// MarshalJSON encodes the entry as {"timestamp": ISO-8601, "count": n}.
func (e CacheEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(cacheEntryJSON{
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Count:     e.Count,
	})
}

// UnmarshalJSON decodes an entry. An unparseable timestamp leaves the
// zero time and a count below one is raised to one.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	var raw cacheEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Timestamp = ParseTimestamp(raw.Timestamp)
	e.Count = max(raw.Count, 1)
	return nil
}

// ParseTimestamp parses an ISO-8601 timestamp, returning the zero time on failure.
func ParseTimestamp(s string) time.Time {
	for _, layout := range cacheTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CacheStats summarizes a URL cache.
type CacheStats struct {
	TotalURLs   int `json:"total_urls"`
	TotalVisits int `json:"total_visits"`
}

// URLCache persists which URLs have been visited across runs.
type URLCache interface {
	// Has reports whether the URL has been visited.
	Has(ctx context.Context, url string) (bool, error)

	// Add records a visit, incrementing the visit count.
	Add(ctx context.Context, url string) error

	// Stats returns the number of URLs and the sum of visit counts.
	Stats(ctx context.Context) (CacheStats, error)

	// Entries returns a copy of all entries.
	Entries(ctx context.Context) (map[string]CacheEntry, error)

	// Merge folds other into the cache, summing visit counts of shared
	// URLs. It returns the number of entries read from other.
	Merge(ctx context.Context, other map[string]CacheEntry) (int, error)
}

// MergeEntries folds src into dst. Counts of shared URLs are summed and
// the later timestamp wins; URLs only in src are copied. It returns
// len(src).
func MergeEntries(dst, src map[string]CacheEntry) int {
	for url, entry := range src {
		entry.Count = max(entry.Count, 1)
		existing, ok := dst[url]
		if !ok {
			dst[url] = entry
			continue
		}
		existing.Count += entry.Count
		if entry.Timestamp.After(existing.Timestamp) {
			existing.Timestamp = entry.Timestamp
		}
		dst[url] = existing
	}
	return len(src)
}

// ComputeStats summarizes a set of cache entries.
func ComputeStats(entries map[string]CacheEntry) CacheStats {
	stats := CacheStats{TotalURLs: len(entries)}
	for _, e := range entries {
		stats.TotalVisits += e.Count
	}
	return stats
}
