package main

import (
	"context"
	"io"
)

// Dependencies holds the process context shared by all commands.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	// Getenv reads configuration overrides from the environment.
	Getenv func(string) string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl CrawlCmd `cmd:"" help:"Crawl sites into a Markdown knowledge base"`
	Cache CacheCmd `cmd:"" help:"Inspect or merge the visited-URL cache"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs []string `arg:"" name:"urls" help:"Seed URLs (https:// is assumed when no scheme is given)"`

	Output string  `short:"o" help:"Output directory (default crawl_output)"`
	Limit  int     `short:"l" default:"-1" help:"Maximum pages to process; negative means no limit"`
	Depth  int     `short:"d" default:"-1" help:"Maximum link depth; seeds are depth 0 (default 3)"`
	Format string  `short:"f" help:"Output format: standard or condensed"`
	Delay  float64 `default:"-1" help:"Seconds between requests to one host (default 1)"`

	NoCache    bool   `help:"Do not read or record visited URLs"`
	CacheFile  string `help:"JSON cache file (default <output>/url_cache.json)"`
	CacheDB    string `name:"cache-db" help:"SQLite cache database instead of the JSON file"`
	MergeCache string `help:"Merge this JSON cache file into the cache before crawling"`

	Fetcher      string `help:"Page fetcher: http, rod or auto"`
	Extractor    string `help:"Main content extractor: trafilatura, readability or none"`
	RelaxedHosts bool   `help:"Also follow links to hosts containing \"docs\""`
	Sitemap      bool   `help:"Seed the crawl from the site's sitemap"`
	Robots       bool   `name:"respect-robots" help:"Skip URLs disallowed by robots.txt"`
	Readable     bool   `help:"Also write a plain-text rendering of each page (standard format)"`
	Concurrency  int    `short:"c" help:"Pages fetched at once (default 1)"`
	CountTokens  bool   `help:"Count model tokens of the written Markdown"`

	Test        bool   `help:"Fetch each seed as a single page without following links"`
	Debug       bool   `help:"Enable debug logging"`
	LogFormat   string `enum:"text,json" default:"text" help:"Log format: text or json"`
	MetricsAddr string `help:"Serve Prometheus metrics on this address while crawling"`
	Config      string `type:"path" help:"YAML config file"`
}

// CacheCmd groups the cache subcommands.
type CacheCmd struct {
	Stats CacheStatsCmd `cmd:"" help:"Show cache statistics"`
	Merge CacheMergeCmd `cmd:"" help:"Merge a JSON cache file into the cache"`
}

// CacheFlags selects the cache the cache subcommands operate on.
type CacheFlags struct {
	Output    string `short:"o" default:"crawl_output" help:"Output directory holding the default cache file"`
	CacheFile string `help:"JSON cache file (default <output>/url_cache.json)"`
	CacheDB   string `name:"cache-db" help:"SQLite cache database"`
}

// CacheStatsCmd is the "cache stats" subcommand.
type CacheStatsCmd struct {
	CacheFlags `embed:""`
}

// CacheMergeCmd is the "cache merge" subcommand.
type CacheMergeCmd struct {
	CacheFlags `embed:""`
	File string `arg:"" type:"path" help:"JSON cache file to merge"`
}
