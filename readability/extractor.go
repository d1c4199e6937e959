// Package readability extracts the main content of a page with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/websum"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements websum.Extractor at compile time.
var _ websum.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Relative
// references in the content are resolved against pageURL.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*websum.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, websum.Errorf(websum.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, websum.Errorf(websum.EPROCESSING, "extract %s: %v", pageURL, err)
	}

	return &websum.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
