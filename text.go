package websum

import (
	"regexp"
	"strings"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	decorativeRe   = regexp.MustCompile(`[=\-*•◦○●]+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// mojibakeReplacer repairs UTF-8 text that was decoded as Windows-1252.
// strings.Replacer compares in argument order, so every sequence is
// listed before the shorter sequences it starts with.
var mojibakeReplacer = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€\u009d", `"`,
	"â€¢", "•",
	"â€¦", "...",
	"â€”", "-",
	"â€“", "-",
	`â€"`, "-",
	"â€", `"`,
)

// navigationPatterns classify boilerplate such as menus and legal links.
var navigationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`home|search|blog|changelog|quick\s+start|installation|deployment`),
	regexp.MustCompile(`previous|next|menu|navigation`),
	regexp.MustCompile(`copyright|terms|privacy|contact`),
}

// CleanText strips link syntax and decorative glyphs, collapses
// whitespace and repairs common mojibake. It is idempotent.
func CleanText(text string) string {
	for {
		cleaned := cleanTextOnce(text)
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

// cleanTextOnce applies one pass of the cleaning steps. A repair can
// produce a glyph the earlier steps remove, so CleanText iterates to a
// fixed point. Every pass either shortens the text or only rewrites
// whitespace, so the loop terminates.
func cleanTextOnce(text string) string {
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = decorativeRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	return mojibakeReplacer.Replace(text)
}

// RepairMojibake applies only the encoding repairs of CleanText.
func RepairMojibake(text string) string {
	return mojibakeReplacer.Replace(text)
}

// IsNavigationText reports whether text looks like site navigation,
// pagination or legal boilerplate.
func IsNavigationText(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range navigationPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
