package websum

import (
	"regexp"
	"slices"
)

// URLFilter narrows a set of discovered URLs by regular expression.
// A URL passes when it matches some Include pattern, or Include is
// empty, and matches no Exclude pattern. A nil filter passes everything.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether url passes the filter.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}

// Non-content URL patterns dropped from link discovery.
var (
	searchPattern     = regexp.MustCompile(`(?i)(/search(/|$|\?)|[?&](q|query|search)=)`)
	listingPattern    = regexp.MustCompile(`(?i)/(tags?|categor(y|ies)|archives?)(/|$)`)
	feedPattern       = regexp.MustCompile(`(?i)(/(feed|rss)/?$|\.(rss|atom)$|/(atom|feed|rss|index)\.xml$)`)
	paginationPattern = regexp.MustCompile(`(?i)(/page/\d+/?$|[?&](page|p)=\d+)`)
	assetDirPattern   = regexp.MustCompile(`(?i)/(static|assets|_static|_next|_nuxt|fonts)/`)
	assetExtPattern   = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|svg|webp|ico|css|js|map|woff2?|ttf|eot|pdf|zip|gz|tgz|tar|mp4|mp3|webm)(\?|$)`)
)

// DefaultLinkDenylist returns the filter that drops search pages,
// tag/category listings, feeds, pagination and static assets.
func DefaultLinkDenylist() *URLFilter {
	return &URLFilter{
		Exclude: []*regexp.Regexp{
			searchPattern,
			listingPattern,
			feedPattern,
			paginationPattern,
			assetDirPattern,
			assetExtPattern,
		},
	}
}
