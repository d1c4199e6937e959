// Package trafilatura strips navigation, footers and other page chrome
// with go-trafilatura, leaving the documentation body as HTML.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/websum"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ websum.Extractor = (*Extractor)(nil)

// Extractor keeps the main content of a page. The zero value is not
// usable; call NewExtractor.
type Extractor struct {
	fallback bool
	comments bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithoutFallback disables the readability and dom-distiller passes
// trafilatura runs when its own heuristics find too little text.
func WithoutFallback() ExtractorOption {
	return func(e *Extractor) {
		e.fallback = false
	}
}

// WithoutComments drops reader comment threads found under the body.
func WithoutComments() ExtractorOption {
	return func(e *Extractor) {
		e.comments = false
	}
}

// NewExtractor returns an Extractor with fallback passes enabled and
// comment sections kept.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{fallback: true, comments: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the page body as HTML. Links are requested from
// trafilatura, which may still strip anchors it scores as boilerplate;
// their text stays in the body. The title comes from page metadata,
// falling back to the site name.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*websum.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, websum.Errorf(websum.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  e.fallback,
		ExcludeComments: !e.comments,
		IncludeLinks:    true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	doc, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, websum.Errorf(websum.EPROCESSING, "extract %s: %v", pageURL, err)
	}

	res := &websum.ExtractResult{Title: doc.Metadata.Title}
	if res.Title == "" {
		res.Title = doc.Metadata.Sitename
	}
	if doc.ContentNode == nil {
		return res, nil
	}

	var b strings.Builder
	if err := html.Render(&b, doc.ContentNode); err != nil {
		return nil, websum.Errorf(websum.EPROCESSING, "render content of %s: %v", pageURL, err)
	}
	res.ContentHTML = b.String()
	return res, nil
}
