package websum

import (
	"strings"
	"time"
)

// FetchResult is what the fetch collaborator reports for one URL.
type FetchResult struct {
	URL      string
	Success  bool
	Error    string
	HTML     string
	Markdown string
	Links    []string
}

// Metadata holds best-effort page metadata extracted from HTML.
// Missing fields are left at their zero value.
type Metadata struct {
	Title        string
	Description  string
	Keywords     []string
	Categories   []string
	LastModified *time.Time
}

// PageResult is the outcome of one fetch attempt, enriched with metadata.
// It is owned by the crawl step that produced it and handed by reference
// to writers; it is never shared between concurrent fetches.
type PageResult struct {
	URL          string
	Success      bool
	Error        string
	HTML         string
	Markdown     string
	Links        []string
	Title        string
	Summary      string
	Keywords     []string
	Categories   []string
	LastModified *time.Time
}

// NewPageResult builds a PageResult from a fetch result.
// A nil result yields a failed PageResult with an empty URL.
func NewPageResult(r *FetchResult) *PageResult {
	if r == nil {
		return &PageResult{Error: "no result"}
	}
	links := make([]string, len(r.Links))
	copy(links, r.Links)
	return &PageResult{
		URL:      r.URL,
		Success:  r.Success,
		Error:    r.Error,
		HTML:     r.HTML,
		Markdown: r.Markdown,
		Links:    links,
	}
}

// ApplyMetadata fills the metadata fields of the page.
func (p *PageResult) ApplyMetadata(m Metadata) {
	p.Title = m.Title
	p.Summary = m.Description
	p.Keywords = m.Keywords
	p.Categories = m.Categories
	p.LastModified = m.LastModified
}

// WordCount returns the number of whitespace-separated words in the page markdown.
func (p *PageResult) WordCount() int {
	return len(strings.Fields(p.Markdown))
}
