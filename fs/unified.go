package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/websum"
)

// Ensure UnifiedWriter implements websum.KnowledgeBaseWriter at compile time.
var _ websum.KnowledgeBaseWriter = (*UnifiedWriter)(nil)

// maxHeaderLevel is the deepest ATX header level.
const maxHeaderLevel = 6

// headerShift moves page headers below the fixed document sections.
const headerShift = 2

const trainingNotes = `## 🤖 LLM Training Notes

This document is structured for both human readability and LLM training:

1. 📚 **Metadata Section**: Contains document classification and context
2. 📋 **Quick Summary**: High-level overview of the content
3. 🔧 **Technical Context**: Programming languages and key terms
4. 📖 **Main Content**: Organized with:
   - Clear section headers
   - Code examples with language tags
   - Step-by-step instructions
   - Important points and notes clearly marked
5. 🔗 **Related Resources**: Links to additional information

Special markers used:
- ❗ Important: Critical information
- 💡 Note: Additional context
- 🔍 Instructions: Step-by-step procedures
- ` + "```" + `language: Code blocks with language specification
`

// UnifiedWriter writes each page as a single annotated markdown file
// meant for both human readers and language-model training.
type UnifiedWriter struct {
	dir     string
	summary websum.SummaryOptions
}

// UnifiedOption configures a UnifiedWriter.
type UnifiedOption func(*UnifiedWriter)

// WithSummaryOptions overrides the condensed summary thresholds.
func WithSummaryOptions(opts websum.SummaryOptions) UnifiedOption {
	return func(w *UnifiedWriter) {
		w.summary = opts
	}
}

// NewUnifiedWriter creates a UnifiedWriter writing into dir.
func NewUnifiedWriter(dir string, opts ...UnifiedOption) *UnifiedWriter {
	w := &UnifiedWriter{dir: dir, summary: websum.DefaultSummaryOptions()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the page and returns the path of the written file.
func (w *UnifiedWriter) Write(ctx context.Context, page *websum.PageResult) (string, error) {
	path := filepath.Join(w.dir, SafeFilename(page.Title, page.URL)+".md")
	if _, err := writeFile(path, []byte(w.Render(page))); err != nil {
		return "", websum.Errorf(websum.ESTORAGE, "write %s: %v", path, err)
	}
	return path, nil
}

// Render returns the unified markdown document for a page.
func (w *UnifiedWriter) Render(page *websum.PageResult) string {
	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = "Untitled"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	writeMetadata(&b, page, title)
	w.writeQuickSummary(&b, page, title)
	writeTechnicalContext(&b, page.Markdown)
	writeMainContent(&b, page.Markdown)

	if len(page.Links) > 0 {
		b.WriteString("## 🔗 Related Resources\n\n")
		for _, link := range page.Links {
			fmt.Fprintf(&b, "- [%s](%s)\n", link, link)
		}
		b.WriteString("\n")
	}

	b.WriteString(trainingNotes)
	return b.String()
}

func writeMetadata(b *strings.Builder, page *websum.PageResult, title string) {
	category := "Uncategorized"
	if len(page.Categories) > 0 {
		category = strings.Join(page.Categories, "/")
	}
	keywords := "None"
	if len(page.Keywords) > 0 {
		keywords = strings.Join(page.Keywords, ", ")
	}
	lastModified := "Unknown"
	if page.LastModified != nil {
		lastModified = page.LastModified.Format(time.RFC3339)
	}

	b.WriteString("## 📚 Document Metadata\n\n")
	b.WriteString("```yaml\n")
	fmt.Fprintf(b, "title: %s\n", title)
	fmt.Fprintf(b, "source_url: %s\n", page.URL)
	fmt.Fprintf(b, "category: %s\n", category)
	fmt.Fprintf(b, "keywords: %s\n", keywords)
	fmt.Fprintf(b, "last_modified: %s\n", lastModified)
	b.WriteString("type: Technical Documentation\n")
	b.WriteString("```\n\n")
}

func (w *UnifiedWriter) writeQuickSummary(b *strings.Builder, page *websum.PageResult, title string) {
	message := strings.TrimSpace(page.Summary)
	var keyPoints []string
	if s := w.summary.Summarize(page.Markdown, title); s != nil {
		if s.CoreMessage != "" {
			message = s.CoreMessage
		}
		keyPoints = s.KeyPoints
	}
	if message == "" && len(keyPoints) == 0 {
		return
	}

	b.WriteString("## 📋 Quick Summary\n\n")
	if message != "" {
		b.WriteString(message)
		b.WriteString("\n\n")
	}
	if len(keyPoints) > 0 {
		b.WriteString("### Key Points\n\n")
		for _, p := range keyPoints {
			fmt.Fprintf(b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
}

func writeTechnicalContext(b *strings.Builder, markdown string) {
	b.WriteString("## 🔧 Technical Context\n\n")

	if langs := websum.CodeLanguages(markdown); len(langs) > 0 {
		b.WriteString("### Programming Languages\n")
		for _, lang := range langs {
			fmt.Fprintf(b, "- %s\n", lang)
		}
		b.WriteString("\n")
	}

	if terms := websum.ExtractTechnicalTerms(markdown); len(terms) > 0 {
		b.WriteString("### Key Technical Terms\n")
		for _, term := range terms {
			fmt.Fprintf(b, "- %s\n", term)
		}
		b.WriteString("\n")
	}
}

func writeMainContent(b *strings.Builder, markdown string) {
	b.WriteString("## 📖 Main Content\n\n")

	for _, s := range websum.SplitSections(markdown) {
		if s.Level > 0 {
			level := min(s.Level+headerShift, maxHeaderLevel)
			fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), s.Title)
		}
		if body := websum.AnnotateSection(s.Body); body != "" {
			b.WriteString(body)
			b.WriteString("\n\n")
		}
	}
}
