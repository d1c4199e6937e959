package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/websum"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Fetcher and extractor choices.
const (
	FetcherHTTP = "http"
	FetcherRod  = "rod"
	FetcherAuto = "auto"

	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
	ExtractorNone        = "none"
)

// Config holds the crawl settings. Values come from DefaultConfig, then
// an optional YAML file, then WEBSUM_* environment variables, then flags.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Crawler   CrawlerConfig   `yaml:"crawler"`
	Content   ContentConfig   `yaml:"content"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
}

// OutputConfig controls where and how pages are written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Format   string `yaml:"format"`
	Readable bool   `yaml:"readable"`
}

// CrawlerConfig controls traversal and fetching.
type CrawlerConfig struct {
	PageLimit      *int          `yaml:"page_limit"`
	MaxDepth       int           `yaml:"max_depth"`
	Concurrency    int           `yaml:"concurrency"`
	Fetcher        string        `yaml:"fetcher"`
	Extractor      string        `yaml:"extractor"`
	UserAgent      string        `yaml:"user_agent"`
	Timeout        time.Duration `yaml:"timeout"`
	RenderDelay    time.Duration `yaml:"render_delay"`
	BrowserRecycle int64         `yaml:"browser_recycle"`
	RelaxedHosts   string        `yaml:"relaxed_hosts"`
	Sitemap        bool          `yaml:"sitemap"`
	RespectRobots  bool          `yaml:"respect_robots"`
	CountTokens    bool          `yaml:"count_tokens"`
	TokenModel     string        `yaml:"token_model"`
}

// ContentConfig tunes condensed summaries.
type ContentConfig struct {
	CoreMinWords  int `yaml:"core_min_words"`
	CoreMaxWords  int `yaml:"core_max_words"`
	KeyPointWords int `yaml:"key_point_words"`
	MaxKeyPoints  int `yaml:"max_key_points"`
	MaxTerms      int `yaml:"max_terms"`
}

// RateLimitConfig controls per-host pacing and retries.
type RateLimitConfig struct {
	DelaySeconds  float64 `yaml:"delay_seconds"`
	MaxRetries    int     `yaml:"max_retries"`
	BackoffFactor float64 `yaml:"backoff_factor"`
}

// CacheConfig selects the visited-URL cache. An empty File means
// url_cache.json inside the output directory.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
	DB      string `yaml:"db"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	summary := websum.DefaultSummaryOptions()
	return Config{
		Output: OutputConfig{
			Dir:    "crawl_output",
			Format: string(websum.FormatStandard),
		},
		Crawler: CrawlerConfig{
			MaxDepth:       3,
			Concurrency:    1,
			Fetcher:        FetcherAuto,
			Extractor:      ExtractorTrafilatura,
			Timeout:        30 * time.Second,
			RenderDelay:    500 * time.Millisecond,
			BrowserRecycle: 75,
		},
		Content: ContentConfig{
			CoreMinWords:  summary.CoreMinWords,
			CoreMaxWords:  summary.CoreMaxWords,
			KeyPointWords: summary.KeyPointWords,
			MaxKeyPoints:  summary.MaxKeyPoints,
			MaxTerms:      summary.MaxTerms,
		},
		RateLimit: RateLimitConfig{
			DelaySeconds:  1.0,
			MaxRetries:    3,
			BackoffFactor: 2.0,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path.
// An empty path skips the file; a named file that does not exist is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, websum.Errorf(websum.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return cfg, websum.Errorf(websum.EINVALID, "read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, websum.Errorf(websum.EPARSE, "parse config %s: %v", path, err)
	}
	return cfg, nil
}

// Environment variables recognized by ApplyEnv.
const (
	EnvOutputDir      = "WEBSUM_OUTPUT_DIR"
	EnvCacheFile      = "WEBSUM_CACHE_FILE"
	EnvRateLimitDelay = "WEBSUM_RATE_LIMIT_DELAY"
	EnvUserAgent      = "WEBSUM_USER_AGENT"
	EnvFetcher        = "WEBSUM_FETCHER"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored and existing variables win.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overlays WEBSUM_* values obtained from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := getenv(EnvCacheFile); v != "" {
		c.Cache.File = v
	}
	if v := getenv(EnvUserAgent); v != "" {
		c.Crawler.UserAgent = v
	}
	if v := getenv(EnvFetcher); v != "" {
		c.Crawler.Fetcher = strings.ToLower(v)
	}
	if v := getenv(EnvRateLimitDelay); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return websum.Errorf(websum.EINVALID, "%s: %q is not a number of seconds", EnvRateLimitDelay, v)
		}
		c.RateLimit.DelaySeconds = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Output.Dir == "" {
		return websum.Errorf(websum.EINVALID, "output directory is required")
	}
	if _, err := websum.ParseSummaryFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Crawler.PageLimit != nil && *c.Crawler.PageLimit < 0 {
		return websum.Errorf(websum.EINVALID, "page limit must not be negative")
	}
	if c.Crawler.MaxDepth < 0 {
		return websum.Errorf(websum.EINVALID, "max depth must not be negative")
	}
	if c.Crawler.Concurrency < 1 {
		return websum.Errorf(websum.EINVALID, "concurrency must be at least 1")
	}
	switch c.Crawler.Fetcher {
	case FetcherHTTP, FetcherRod, FetcherAuto:
	default:
		return websum.Errorf(websum.EINVALID, "unknown fetcher %q (want http, rod or auto)", c.Crawler.Fetcher)
	}
	switch c.Crawler.Extractor {
	case ExtractorTrafilatura, ExtractorReadability, ExtractorNone:
	default:
		return websum.Errorf(websum.EINVALID, "unknown extractor %q (want trafilatura, readability or none)", c.Crawler.Extractor)
	}
	if c.RateLimit.DelaySeconds < 0 {
		return websum.Errorf(websum.EINVALID, "rate limit delay must not be negative")
	}
	if c.RateLimit.MaxRetries < 1 {
		return websum.Errorf(websum.EINVALID, "max retries must be at least 1")
	}
	if c.RateLimit.BackoffFactor < 1 {
		return websum.Errorf(websum.EINVALID, "backoff factor must be at least 1")
	}
	return nil
}

// Delay returns the per-host delay between requests.
func (c Config) Delay() time.Duration {
	return time.Duration(c.RateLimit.DelaySeconds * float64(time.Second))
}

// SummaryOptions returns the condensed summary thresholds.
func (c Config) SummaryOptions() websum.SummaryOptions {
	return websum.SummaryOptions{
		CoreMinWords:  c.Content.CoreMinWords,
		CoreMaxWords:  c.Content.CoreMaxWords,
		KeyPointWords: c.Content.KeyPointWords,
		MaxKeyPoints:  c.Content.MaxKeyPoints,
		MaxTerms:      c.Content.MaxTerms,
	}
}
