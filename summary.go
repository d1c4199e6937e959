package websum

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	fencedCodeRe   = regexp.MustCompile("(?s)```.*?```")
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	headingPrefix  = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	paragraphSepRe = regexp.MustCompile(`\n\s*\n`)
)

// minParagraphLength is the length a paragraph must exceed to count as prose.
const minParagraphLength = 20

// CondensedSummary is the distilled form of a page used by the
// condensed layout.
type CondensedSummary struct {
	Title          string
	CoreMessage    string
	KeyPoints      []string
	TechnicalTerms []string
}

// SummaryOptions tunes condensed summary extraction.
type SummaryOptions struct {
	CoreMinWords  int
	CoreMaxWords  int
	KeyPointWords int
	MaxKeyPoints  int
	MaxTerms      int
}

// DefaultSummaryOptions returns the standard thresholds.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		CoreMinWords:  10,
		CoreMaxWords:  25,
		KeyPointWords: 8,
		MaxKeyPoints:  5,
		MaxTerms:      5,
	}
}

// ReadableParagraphs strips code, links, URLs, HTML and header markers
// from markdown and returns the cleaned prose paragraphs. Short and
// navigation-like paragraphs are dropped.
func ReadableParagraphs(markdown string) []string {
	text := fencedCodeRe.ReplaceAllString(markdown, "")
	text = inlineCodeSpanRe.ReplaceAllString(text, "")
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = bareURLRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	text = headingPrefix.ReplaceAllString(text, "")

	var paragraphs []string
	for _, raw := range paragraphSepRe.Split(text, -1) {
		p := CleanText(raw)
		if utf8.RuneCountInString(p) <= minParagraphLength || IsNavigationText(p) {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}

// ExtractReadableText returns the readable paragraphs of markdown
// joined by blank lines.
func ExtractReadableText(markdown string) string {
	return strings.Join(ReadableParagraphs(markdown), "\n\n")
}

// CreateCondensedSummary summarizes markdown using DefaultSummaryOptions.
func CreateCondensedSummary(markdown, title string) *CondensedSummary {
	return DefaultSummaryOptions().Summarize(markdown, title)
}

// Summarize builds a condensed summary of markdown. It returns nil
// when no prose survives filtering.
func (o SummaryOptions) Summarize(markdown, title string) *CondensedSummary {
	paragraphs := ReadableParagraphs(markdown)
	if len(paragraphs) == 0 {
		return nil
	}

	s := &CondensedSummary{Title: strings.TrimSpace(title)}

	rest := paragraphs[1:]
	for i, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) < o.CoreMinWords {
			continue
		}
		core := strings.Join(words[:min(len(words), o.CoreMaxWords)], " ")
		if !strings.HasSuffix(core, ".") && !strings.HasSuffix(core, ",") &&
			!strings.HasSuffix(core, "!") && !strings.HasSuffix(core, "?") {
			core += "..."
		}
		s.CoreMessage = core
		rest = paragraphs[i+1:]
		break
	}

	for _, p := range rest {
		if len(s.KeyPoints) >= o.MaxKeyPoints {
			break
		}
		words := strings.Fields(p)
		if len(words) < o.KeyPointWords {
			continue
		}
		s.KeyPoints = append(s.KeyPoints, p)
	}

	for _, term := range ExtractTechnicalTerms(strings.Join(paragraphs, "\n\n")) {
		if len(s.TechnicalTerms) >= o.MaxTerms {
			break
		}
		if utf8.RuneCountInString(term) <= 2 || IsNavigationText(term) {
			continue
		}
		s.TechnicalTerms = append(s.TechnicalTerms, term)
	}

	if s.CoreMessage == "" && len(s.KeyPoints) == 0 && len(s.TechnicalTerms) == 0 {
		return nil
	}
	return s
}

var (
	readableLinkRe      = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	readableBulletRe    = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	readableNumberedRe  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	readableBoldRe      = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	readableItalicRe    = regexp.MustCompile(`\*([^*\n]+)\*`)
	readableUnderlineRe = regexp.MustCompile(`(^|\W)_([^_\n]+)_(\W|$)`)
	horizontalSpaceRe   = regexp.MustCompile(`[ \t]+`)
	lineEdgeSpaceRe     = regexp.MustCompile(`(?m)^ +| +$`)
	sectionBreakRe      = regexp.MustCompile(`\n{2,}`)
)

// ReadableOptions controls plain-text rendering.
type ReadableOptions struct {
	// IncludeLinks keeps link targets as numbered references.
	IncludeLinks bool
	// IncludeSections separates paragraphs with horizontal rules.
	IncludeSections bool
}

// RenderReadableText converts markdown to plain prose. Code is
// removed, formatting is stripped and list items become bullets.
func RenderReadableText(markdown string, opts ReadableOptions) string {
	text := fencedCodeRe.ReplaceAllString(markdown, "")
	text = inlineCodeSpanRe.ReplaceAllString(text, "")

	var refs []string
	text = readableLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := readableLinkRe.FindStringSubmatch(m)
		if !opts.IncludeLinks {
			return sub[1]
		}
		refs = append(refs, sub[2])
		return fmt.Sprintf("%s [%d]", sub[1], len(refs))
	})

	text = headingPrefix.ReplaceAllString(text, "")
	text = readableBulletRe.ReplaceAllString(text, "• ")
	text = readableNumberedRe.ReplaceAllString(text, "• ")
	text = readableBoldRe.ReplaceAllString(text, "$1")
	text = readableItalicRe.ReplaceAllString(text, "$1")
	text = readableUnderlineRe.ReplaceAllString(text, "$1$2$3")

	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = lineEdgeSpaceRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if opts.IncludeSections {
		text = sectionBreakRe.ReplaceAllString(text, "\n\n---\n\n")
	}

	if len(refs) > 0 {
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\n\nReferences:")
		for i, ref := range refs {
			fmt.Fprintf(&b, "\n[%d] %s", i+1, ref)
		}
		text = b.String()
	}

	return text
}
