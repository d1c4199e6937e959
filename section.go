package websum

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	headingRe        = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	closingHashesRe  = regexp.MustCompile(`\s+#+\s*$`)
	fencedBlockRe    = regexp.MustCompile("(?s)```([^\n`]*)\n(.*?)```")
	inlineCodeSpanRe = regexp.MustCompile("`[^`\n]+`")
	importantRe      = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	noteRe           = regexp.MustCompile(`\*([^*\n]+)\*`)
	listItemRe       = regexp.MustCompile(`^\s*(?:\d+\.|[-*+])\s+`)
	listMarkerRe     = regexp.MustCompile(`^(\s*)(?:\d+\.|[-*+])\s+`)
	fenceInfoRe      = regexp.MustCompile("(?m)^\\s*```([A-Za-z0-9_+#.-]+)")
)

// Section is one header-delimited block of a markdown document.
// Content before the first header forms a Level 0 section with no title.
type Section struct {
	Level int
	Title string
	Body  string
}

// SplitSections splits markdown into sections at ATX headers.
// Headers inside fenced code do not start a section.
func SplitSections(markdown string) []Section {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	var (
		sections []Section
		current  Section
		body     []string
		inFence  bool
	)

	flush := func() {
		text := strings.Trim(strings.Join(body, "\n"), "\n")
		if current.Level == 0 && strings.TrimSpace(text) == "" {
			return
		}
		current.Body = text
		sections = append(sections, current)
	}

	for _, line := range strings.Split(markdown, "\n") {
		if isFenceLine(line) {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				flush()
				title := closingHashesRe.ReplaceAllString(strings.TrimSpace(m[2]), "")
				current = Section{Level: len(m[1]), Title: title}
				body = nil
				continue
			}
		}
		body = append(body, line)
	}
	flush()

	return sections
}

// AnnotateSection decorates a section body for the unified layout.
// Code blocks are lifted out behind placeholders, list runs get an
// instructions marker and bullets, emphasis becomes important and
// note markers, and the code is restored as labelled examples.
// Text inside code is never modified.
func AnnotateSection(body string) string {
	var blocks []string
	text := fencedBlockRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := fencedBlockRe.FindStringSubmatch(m)
		lang := fenceLanguage(codeFence + sub[1])
		if lang == "" {
			lang = "text"
		}
		code := strings.Join(trimBlankEdges(strings.Split(sub[2], "\n")), "\n")
		blocks = append(blocks, fmt.Sprintf("Code Example (%s):\n```%s\n%s\n```", lang, lang, code))
		return placeholder("CODE", len(blocks)-1)
	})

	var spans []string
	text = inlineCodeSpanRe.ReplaceAllStringFunc(text, func(m string) string {
		spans = append(spans, m)
		return placeholder("SPAN", len(spans)-1)
	})

	text = markInstructions(text)
	text = importantRe.ReplaceAllString(text, "❗ Important: $1")
	text = noteRe.ReplaceAllString(text, "💡 Note: $1")

	for i, span := range spans {
		text = strings.Replace(text, placeholder("SPAN", i), span, 1)
	}
	for i, block := range blocks {
		text = strings.Replace(text, placeholder("CODE", i), "\n"+block+"\n", 1)
	}

	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.Trim(text, "\n")
}

func placeholder(kind string, i int) string {
	return fmt.Sprintf("\x00%s%d\x00", kind, i)
}

// markInstructions precedes every run of list items with an
// instructions marker and rewrites their markers as bullets.
func markInstructions(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	inList := false

	for _, line := range lines {
		if listItemRe.MatchString(line) && !thematicBreakRe.MatchString(line) {
			if !inList {
				out = append(out, "", "🔍 Instructions:", "")
				inList = true
			}
			out = append(out, listMarkerRe.ReplaceAllString(line, "${1}• "))
			continue
		}
		if inList && strings.TrimSpace(line) != "" {
			out = append(out, "")
		}
		inList = false
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// CodeLanguages returns the sorted distinct languages named on fence lines.
func CodeLanguages(markdown string) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, m := range fenceInfoRe.FindAllStringSubmatch(markdown, -1) {
		lang := strings.ToLower(m[1])
		if seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
