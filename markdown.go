package websum

import (
	"regexp"
	"strings"
)

var (
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	atxHeaderRe     = regexp.MustCompile(`^#{1,6}(\s|$)`)

	bulletMarkerRe   = regexp.MustCompile(`^(\s*)[*+-](\s+)`)
	numberedMarkerRe = regexp.MustCompile(`^(\s*)\d+\.(\s+)`)
	thematicBreakRe  = regexp.MustCompile(`^\s*([-*_])(\s*[-*_]){2,}\s*$`)

	pythonRe       = regexp.MustCompile(`(import\s+\w+|from\s+\w+\s+import|def\s+\w+|class\s+\w+|async\s+def)`)
	pyImportLineRe = regexp.MustCompile(`^\s*(import\s+\S|from\s+\S+\s+import\s)`)
	pyDefLineRe    = regexp.MustCompile(`^\s*(@\w|(async\s+)?def\s+\w|class\s+\w)`)
	pyDecoratorRe  = regexp.MustCompile(`^\s*@\w`)
)

// codeFence is the fenced code block delimiter.
const codeFence = "```"

// CleanMarkdown normalizes line endings, strips trailing blanks,
// collapses runs of blank lines and puts exactly one blank line after
// every header. It is idempotent and maps empty input to "".
func CleanMarkdown(md string) string {
	if md == "" {
		return ""
	}

	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")
	md = trailingSpaceRe.ReplaceAllString(md, "\n")
	md = strings.TrimSpace(md)
	md = spaceHeaders(md)
	md = blankRunRe.ReplaceAllString(md, "\n\n")

	return strings.TrimSpace(md)
}

// spaceHeaders inserts a blank line after header lines that are
// directly followed by content. Fenced code is left untouched.
func spaceHeaders(md string) string {
	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for i, line := range lines {
		out = append(out, line)
		if isFenceLine(line) {
			inFence = !inFence
			continue
		}
		if inFence || !atxHeaderRe.MatchString(line) {
			continue
		}
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}

	return strings.Join(out, "\n")
}

// isFenceLine reports whether the trimmed line opens or closes a fenced block.
func isFenceLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), codeFence)
}

// fenceLanguage returns the info string language of an opening fence line.
func fenceLanguage(line string) string {
	info := strings.TrimPrefix(strings.TrimSpace(line), codeFence)
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "{}.")
}

// DetectCodeLanguage guesses the language of a code snippet.
// Only Python is recognized; other code yields "".
func DetectCodeLanguage(code string) string {
	if pythonRe.MatchString(code) {
		return "python"
	}
	return ""
}

// FormatCodeBlock returns code wrapped in a fenced block. An explicit
// lang wins over the detected language. Python code is dedented and
// gets blank lines after import runs and before definitions. Only
// whitespace changes; statements and tokens are never altered.
func FormatCodeBlock(code, lang string) string {
	lines := trimBlankEdges(strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n"))

	detected := DetectCodeLanguage(code)
	if lang == "" {
		lang = detected
	}
	if detected != "" && (lang == "python" || lang == "py") {
		lines = spacePython(dedent(lines))
	}

	var b strings.Builder
	b.WriteString(codeFence)
	b.WriteString(lang)
	b.WriteString("\n")
	if len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString(codeFence)
	return b.String()
}

// trimBlankEdges drops leading and trailing blank lines.
func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// dedent removes the whitespace prefix shared by all non-blank lines.
// Blank lines become empty.
func dedent(lines []string) []string {
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out[i] = strings.TrimPrefix(line, prefix)
	}
	return out
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// spacePython separates import runs from following code and puts a
// blank line before definitions and decorators.
func spacePython(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if len(out) > 0 && pyDefLineRe.MatchString(line) {
			prev := out[len(out)-1]
			trimmedPrev := strings.TrimSpace(prev)
			if trimmedPrev != "" && !pyDecoratorRe.MatchString(prev) && !strings.HasSuffix(trimmedPrev, ":") {
				out = append(out, "")
			}
		}
		out = append(out, line)

		if !pyImportLineRe.MatchString(line) || i+1 >= len(lines) {
			continue
		}
		next := lines[i+1]
		if strings.TrimSpace(next) != "" && !pyImportLineRe.MatchString(next) {
			out = append(out, "")
		}
	}
	return out
}

// ProcessMarkdownContent reformats fenced code blocks and normalizes
// list markers. Bullets become "-" and numbered items become "1."
// with their indentation kept. An unterminated fence is closed at the
// end of input.
func ProcessMarkdownContent(md string) string {
	if md == "" {
		return ""
	}

	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	var code []string
	lang := ""
	inFence := false

	for _, line := range lines {
		if isFenceLine(line) {
			if inFence {
				out = append(out, FormatCodeBlock(strings.Join(code, "\n"), lang))
				code = nil
				inFence = false
			} else {
				lang = fenceLanguage(line)
				inFence = true
			}
			continue
		}
		if inFence {
			code = append(code, line)
			continue
		}
		out = append(out, normalizeListMarker(line))
	}

	if inFence {
		out = append(out, FormatCodeBlock(strings.Join(code, "\n"), lang))
	}

	return strings.Join(out, "\n")
}

// normalizeListMarker rewrites list markers to their canonical form.
func normalizeListMarker(line string) string {
	if thematicBreakRe.MatchString(line) {
		return line
	}
	if bulletMarkerRe.MatchString(line) {
		return bulletMarkerRe.ReplaceAllString(line, "${1}-${2}")
	}
	return numberedMarkerRe.ReplaceAllString(line, "${1}1.${2}")
}
