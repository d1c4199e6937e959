package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLCache(t *testing.T) {
	t.Parallel()

	t.Run("missing file starts empty", func(t *testing.T) {
		t.Parallel()

		c, err := fs.OpenURLCache(filepath.Join(t.TempDir(), "cache.json"))
		require.NoError(t, err)

		stats, err := c.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, websum.CacheStats{}, stats)
	})

	t.Run("malformed file starts empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cache.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		c, err := fs.OpenURLCache(path)
		require.NoError(t, err)

		has, err := c.Has(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("add persists and counts visits", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "cache.json")
		c, err := fs.OpenURLCache(path)
		require.NoError(t, err)

		require.NoError(t, c.Add(ctx, "https://example.com/a"))
		require.NoError(t, c.Add(ctx, "https://example.com/a"))
		require.NoError(t, c.Add(ctx, "https://example.com/b"))

		reopened, err := fs.OpenURLCache(path)
		require.NoError(t, err)
		has, err := reopened.Has(ctx, "https://example.com/a")
		require.NoError(t, err)
		assert.True(t, has)

		stats, err := reopened.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, websum.CacheStats{TotalURLs: 2, TotalVisits: 3}, stats)

		entries, err := reopened.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, entries["https://example.com/a"].Count)
		assert.False(t, entries["https://example.com/a"].Timestamp.IsZero())
	})

	t.Run("writes the documented file shape", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cache.json")
		c, err := fs.OpenURLCache(path)
		require.NoError(t, err)
		require.NoError(t, c.Add(context.Background(), "https://example.com"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var raw map[string]map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Contains(t, raw, "https://example.com")
		assert.Equal(t, float64(1), raw["https://example.com"]["count"])
		assert.IsType(t, "", raw["https://example.com"]["timestamp"])
	})

	t.Run("merge sums counts and keeps one-sided entries", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		dir := t.TempDir()
		other := filepath.Join(dir, "other.json")
		require.NoError(t, os.WriteFile(other, []byte(`{
  "https://example.com/a": {"timestamp": "2024-01-01T00:00:00", "count": 2},
  "https://example.com/c": {"timestamp": "2024-01-01T00:00:00.123456"}
}`), 0644))

		c, err := fs.OpenURLCache(filepath.Join(dir, "cache.json"))
		require.NoError(t, err)
		require.NoError(t, c.Add(ctx, "https://example.com/a"))
		require.NoError(t, c.Add(ctx, "https://example.com/b"))

		entries, err := fs.ReadCacheFile(other)
		require.NoError(t, err)
		n, err := c.Merge(ctx, entries)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		merged, err := c.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, merged["https://example.com/a"].Count)
		assert.Equal(t, 1, merged["https://example.com/b"].Count)
		assert.Equal(t, 1, merged["https://example.com/c"].Count)
		assert.True(t, merged["https://example.com/c"].Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 123456000, time.UTC)))

		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, websum.CacheStats{TotalURLs: 3, TotalVisits: 5}, stats)
	})
}

func TestURLCache_MergeOrder(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	a := map[string]websum.CacheEntry{
		"https://example.com/a": {Timestamp: day(1), Count: 2},
		"https://example.com/b": {Timestamp: day(5), Count: 1},
	}
	b := map[string]websum.CacheEntry{
		"https://example.com/a": {Timestamp: day(3), Count: 1},
		"https://example.com/c": {Timestamp: day(2), Count: 0},
	}
	c := map[string]websum.CacheEntry{
		"https://example.com/a": {Timestamp: day(2), Count: 4},
		"https://example.com/b": {Timestamp: day(1), Count: 3},
	}
	want := map[string]websum.CacheEntry{
		"https://example.com/a": {Timestamp: day(3), Count: 7},
		"https://example.com/b": {Timestamp: day(5), Count: 4},
		"https://example.com/c": {Timestamp: day(2), Count: 1},
	}

	tests := []struct {
		name  string
		order []map[string]websum.CacheEntry
	}{
		{name: "a b c", order: []map[string]websum.CacheEntry{a, b, c}},
		{name: "c b a", order: []map[string]websum.CacheEntry{c, b, a}},
		{name: "b a c", order: []map[string]websum.CacheEntry{b, a, c}},
		{name: "c a b", order: []map[string]websum.CacheEntry{c, a, b}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "cache.json")
			cache, err := fs.OpenURLCache(path)
			require.NoError(t, err)
			for _, m := range tt.order {
				_, err := cache.Merge(ctx, m)
				require.NoError(t, err)
			}

			reopened, err := fs.OpenURLCache(path)
			require.NoError(t, err)
			got, err := reopened.Entries(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for url, w := range want {
				assert.Equal(t, w.Count, got[url].Count, url)
				assert.True(t, w.Timestamp.Equal(got[url].Timestamp), url)
			}
		})
	}
}

func TestReadCacheFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadCacheFile(filepath.Join(t.TempDir(), "none.json"))

		assert.Equal(t, websum.ENOTFOUND, websum.ErrorCode(err))
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0644))

		_, err := fs.ReadCacheFile(path)

		assert.Equal(t, websum.EPARSE, websum.ErrorCode(err))
	})

	t.Run("null document", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "null.json")
		require.NoError(t, os.WriteFile(path, []byte(`null`), 0644))

		entries, err := fs.ReadCacheFile(path)

		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	report := &websum.CrawlReport{
		RunID:     "run-1",
		Seeds:     []string{"https://example.com"},
		Format:    "standard",
		Processed: 2,
		Succeeded: 1,
		Failed:    1,
		Cache:     websum.CacheStats{TotalURLs: 2, TotalVisits: 2},
	}

	path, err := fs.WriteReport(dir, report)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, fs.ReportFilename), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got websum.CrawlReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 2, got.Processed)
	assert.Equal(t, 2, got.Cache.TotalVisits)
	assert.NotContains(t, string(data), "tokens")
}
