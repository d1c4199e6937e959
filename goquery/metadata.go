package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/websum"
)

// Ensure MetadataExtractor implements websum.MetadataExtractor.
var _ websum.MetadataExtractor = (*MetadataExtractor)(nil)

// lastModifiedLayouts are the ISO-8601 forms accepted in the
// last-modified meta tag.
var lastModifiedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// MetadataExtractor reads title, description, keywords, last-modified
// time and generator category from HTML.
type MetadataExtractor struct {
	titleSuffixes []*regexp.Regexp
}

// MetadataOption configures a MetadataExtractor.
type MetadataOption func(*MetadataExtractor)

// WithTitleSuffix strips site branding matching any of the patterns
// from page titles, e.g. `\s*[|-]\s*Example Docs$`.
func WithTitleSuffix(patterns ...*regexp.Regexp) MetadataOption {
	return func(e *MetadataExtractor) {
		e.titleSuffixes = append(e.titleSuffixes, patterns...)
	}
}

// NewMetadataExtractor creates a MetadataExtractor.
func NewMetadataExtractor(opts ...MetadataOption) *MetadataExtractor {
	e := &MetadataExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the metadata of html. It never fails: unparseable
// input or fields are left empty.
func (e *MetadataExtractor) Extract(html string) websum.Metadata {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return websum.Metadata{}
	}

	m := websum.Metadata{
		Title:        e.title(doc),
		Description:  metaContent(doc, "description"),
		Keywords:     splitKeywords(metaContent(doc, "keywords")),
		LastModified: parseLastModified(metaContent(doc, "last-modified")),
	}
	if generator := DetectGenerator(doc); generator != "" {
		m.Categories = []string{generator}
	}
	return m
}

func (e *MetadataExtractor) title(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	for _, re := range e.titleSuffixes {
		title = strings.TrimSpace(re.ReplaceAllString(title, ""))
	}
	return title
}

// metaContent returns the trimmed content of the first meta tag with
// the given name, compared case-insensitively.
func metaContent(doc *goquery.Document, name string) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
		content, _ = s.Attr("content")
		return false
	})
	return strings.TrimSpace(content)
}

func splitKeywords(s string) []string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// parseLastModified returns nil when s is empty or not ISO-8601.
func parseLastModified(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range lastModifiedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
