package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/websum"
	main "github.com/fwojciec/websum/cmd/websum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := main.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "crawl_output", cfg.Output.Dir)
	assert.Equal(t, "standard", cfg.Output.Format)
	assert.Nil(t, cfg.Crawler.PageLimit)
	assert.Equal(t, 3, cfg.Crawler.MaxDepth)
	assert.Equal(t, main.FetcherAuto, cfg.Crawler.Fetcher)
	assert.Equal(t, time.Second, cfg.Delay())
	assert.Equal(t, 3, cfg.RateLimit.MaxRetries)
	assert.True(t, cfg.Cache.Enabled)
	assert.Empty(t, cfg.Cache.File)
	assert.Equal(t, websum.DefaultSummaryOptions(), cfg.SummaryOptions())
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, main.DefaultConfig(), cfg)
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
output:
  dir: ./kb
  format: condensed
crawler:
  page_limit: 25
  max_depth: 1
  fetcher: http
  timeout: 5s
rate_limit:
  delay_seconds: 0.5
  max_retries: 2
content:
  max_terms: 3
`), 0o644))

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "./kb", cfg.Output.Dir)
		assert.Equal(t, "condensed", cfg.Output.Format)
		require.NotNil(t, cfg.Crawler.PageLimit)
		assert.Equal(t, 25, *cfg.Crawler.PageLimit)
		assert.Equal(t, 1, cfg.Crawler.MaxDepth)
		assert.Equal(t, main.FetcherHTTP, cfg.Crawler.Fetcher)
		assert.Equal(t, 5*time.Second, cfg.Crawler.Timeout)
		assert.Equal(t, 500*time.Millisecond, cfg.Delay())
		assert.Equal(t, 2, cfg.RateLimit.MaxRetries)
		assert.Equal(t, 3, cfg.Content.MaxTerms)
		// untouched keys keep their defaults
		assert.Equal(t, 2.0, cfg.RateLimit.BackoffFactor)
		assert.Equal(t, main.ExtractorTrafilatura, cfg.Crawler.Extractor)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.Equal(t, websum.ENOTFOUND, websum.ErrorCode(err))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))

		_, err := main.LoadConfig(path)

		assert.Equal(t, websum.EPARSE, websum.ErrorCode(err))
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("overrides from environment", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{
			main.EnvOutputDir:      "/tmp/kb",
			main.EnvCacheFile:      "/tmp/cache.json",
			main.EnvRateLimitDelay: "2.5",
			main.EnvUserAgent:      "custom/1.0",
			main.EnvFetcher:        "HTTP",
		}
		cfg := main.DefaultConfig()

		err := cfg.ApplyEnv(func(k string) string { return env[k] })

		require.NoError(t, err)
		assert.Equal(t, "/tmp/kb", cfg.Output.Dir)
		assert.Equal(t, "/tmp/cache.json", cfg.Cache.File)
		assert.Equal(t, 2500*time.Millisecond, cfg.Delay())
		assert.Equal(t, "custom/1.0", cfg.Crawler.UserAgent)
		assert.Equal(t, main.FetcherHTTP, cfg.Crawler.Fetcher)
	})

	t.Run("rejects non-numeric delay", func(t *testing.T) {
		t.Parallel()

		cfg := main.DefaultConfig()

		err := cfg.ApplyEnv(func(k string) string {
			if k == main.EnvRateLimitDelay {
				return "soon"
			}
			return ""
		})

		assert.Equal(t, websum.EINVALID, websum.ErrorCode(err))
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	negative := -1
	tests := []struct {
		name   string
		mutate func(*main.Config)
	}{
		{"empty output dir", func(c *main.Config) { c.Output.Dir = "" }},
		{"unknown format", func(c *main.Config) { c.Output.Format = "pdf" }},
		{"negative page limit", func(c *main.Config) { c.Crawler.PageLimit = &negative }},
		{"negative depth", func(c *main.Config) { c.Crawler.MaxDepth = -1 }},
		{"zero concurrency", func(c *main.Config) { c.Crawler.Concurrency = 0 }},
		{"unknown fetcher", func(c *main.Config) { c.Crawler.Fetcher = "curl" }},
		{"unknown extractor", func(c *main.Config) { c.Crawler.Extractor = "magic" }},
		{"negative delay", func(c *main.Config) { c.RateLimit.DelaySeconds = -1 }},
		{"zero retries", func(c *main.Config) { c.RateLimit.MaxRetries = 0 }},
		{"backoff below one", func(c *main.Config) { c.RateLimit.BackoffFactor = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := main.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			assert.Equal(t, websum.EINVALID, websum.ErrorCode(err))
		})
	}
}
