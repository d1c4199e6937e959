package websum

import (
	"regexp"
	"sort"
	"strings"
)

var (
	camelCaseRe   = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)+\b`)
	snakeCaseRe   = regexp.MustCompile(`\b[a-z]+_[a-z_]+\b`)
	inlineCodeRe  = regexp.MustCompile("`([^`\n]+)`")
	acronymRe     = regexp.MustCompile(`\b(?:API|REST|HTTP|JSON|XML|HTML|CSS|URL|SDK|CLI)\b`)
	progKeywordRe = regexp.MustCompile(`\b(?:function|class|method|object|variable|parameter)\b`)
)

// ExtractTechnicalTerms returns the sorted distinct CamelCase and
// snake_case identifiers, inline code contents, well-known acronyms
// and programming nouns found in text.
func ExtractTechnicalTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, re := range []*regexp.Regexp{camelCaseRe, snakeCaseRe, acronymRe, progKeywordRe} {
		for _, m := range re.FindAllString(text, -1) {
			add(m)
		}
	}
	for _, m := range inlineCodeRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	sort.Strings(terms)
	return terms
}
