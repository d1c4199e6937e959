package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/websum"
)

var _ websum.Prober = (*Prober)(nil)

// jsRequired records which generators render their content client-side.
var jsRequired = map[string]bool{
	Docusaurus: false,
	MkDocs:     false,
	Sphinx:     false,
	VitePress:  false,
	VuePress:   false,
	Nextra:     false,
	GitBook:    true,
}

// Prober detects documentation generators from static HTML.
type Prober struct{}

// NewProber returns a Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Detect returns the generator that produced html, or "" when unknown or
// unparseable.
func (p *Prober) Detect(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return DetectGenerator(doc)
}

// RequiresJS reports whether the generator needs a browser to render.
func (p *Prober) RequiresJS(generator string) (bool, bool) {
	required, known := jsRequired[generator]
	return required, known
}
