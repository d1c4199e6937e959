package fs

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/websum"
)

// Ensure StandardWriter implements websum.KnowledgeBaseWriter at compile time.
var _ websum.KnowledgeBaseWriter = (*StandardWriter)(nil)

// summaryLength is the number of markdown characters kept in the JSON summary.
const summaryLength = 500

// StandardDocument is the JSON sidecar written next to each page.
type StandardDocument struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Timestamp    string   `json:"timestamp"`
	WordCount    int      `json:"word_count"`
	Summary      string   `json:"summary"`
	LastModified *string  `json:"last_modified"`
	Links        []string `json:"links"`
}

// StandardWriter writes each page as <title>.md plus a <title>.json
// metadata sidecar and, optionally, a <title>.txt readable rendition.
type StandardWriter struct {
	dir      string
	readable bool
	now      func() time.Time
}

// StandardOption configures a StandardWriter.
type StandardOption func(*StandardWriter)

// WithReadableText also writes a plain-text rendition with numbered
// link references and section breaks.
func WithReadableText() StandardOption {
	return func(w *StandardWriter) {
		w.readable = true
	}
}

// WithClock sets the time source used for document timestamps.
func WithClock(now func() time.Time) StandardOption {
	return func(w *StandardWriter) {
		w.now = now
	}
}

// NewStandardWriter creates a StandardWriter writing into dir.
func NewStandardWriter(dir string, opts ...StandardOption) *StandardWriter {
	w := &StandardWriter{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores the page and returns the path of the markdown file.
func (w *StandardWriter) Write(ctx context.Context, page *websum.PageResult) (string, error) {
	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = "Untitled"
	}
	base := filepath.Join(w.dir, SafeTitle(title))

	mdPath := base + ".md"
	if _, err := writeFile(mdPath, []byte("# "+title+"\n\n"+page.Markdown)); err != nil {
		return "", websum.Errorf(websum.ESTORAGE, "write %s: %v", mdPath, err)
	}

	doc := w.document(page, title)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", websum.Errorf(websum.ESTORAGE, "encode metadata for %s: %v", page.URL, err)
	}
	jsonPath := base + ".json"
	if _, err := writeFile(jsonPath, data); err != nil {
		return "", websum.Errorf(websum.ESTORAGE, "write %s: %v", jsonPath, err)
	}

	if w.readable {
		text := websum.RenderReadableText(page.Markdown, websum.ReadableOptions{
			IncludeLinks:    true,
			IncludeSections: true,
		})
		txtPath := base + ".txt"
		if _, err := writeFile(txtPath, []byte(text)); err != nil {
			return "", websum.Errorf(websum.ESTORAGE, "write %s: %v", txtPath, err)
		}
	}

	return mdPath, nil
}

func (w *StandardWriter) document(page *websum.PageResult, title string) StandardDocument {
	summary := page.Markdown
	if runes := []rune(summary); len(runes) > summaryLength {
		summary = string(runes[:summaryLength])
	}

	var lastModified *string
	if page.LastModified != nil {
		s := page.LastModified.Format(time.RFC3339)
		lastModified = &s
	}

	links := page.Links
	if links == nil {
		links = []string{}
	}

	return StandardDocument{
		URL:          page.URL,
		Title:        title,
		Timestamp:    w.now().UTC().Format(time.RFC3339),
		WordCount:    page.WordCount(),
		Summary:      summary,
		LastModified: lastModified,
		Links:        links,
	}
}
