package goquery

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/websum"
)

// Ensure LinkResolver implements websum.LinkExtractor.
var _ websum.LinkExtractor = (*LinkResolver)(nil)

// LinkResolver finds same-site links in HTML anchors.
type LinkResolver struct {
	relaxedMarker string
	denylist      *websum.URLFilter
}

// LinkResolverOption configures a LinkResolver.
type LinkResolverOption func(*LinkResolver)

// WithRelaxedHosts also accepts hosts containing marker, e.g. "docs",
// in addition to the exact base host.
func WithRelaxedHosts(marker string) LinkResolverOption {
	return func(r *LinkResolver) {
		r.relaxedMarker = strings.ToLower(marker)
	}
}

// WithDenylist replaces the default non-content URL filter.
// A nil filter keeps every same-site link.
func WithDenylist(f *websum.URLFilter) LinkResolverOption {
	return func(r *LinkResolver) {
		r.denylist = f
	}
}

// NewLinkResolver creates a LinkResolver using the default denylist.
func NewLinkResolver(opts ...LinkResolverOption) *LinkResolver {
	r := &LinkResolver{denylist: websum.DefaultLinkDenylist()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExtractLinks returns the sorted, deduplicated absolute URLs of
// same-site anchors in html.
func (r *LinkResolver) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, websum.Errorf(websum.EPARSE, "failed to parse HTML: %v", err)
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})

	return r.resolveAll(base, hrefs), nil
}

// FilterLinks applies the same resolution and filtering rules to a
// list of links reported by a fetch collaborator. An invalid base URL
// yields no links.
func (r *LinkResolver) FilterLinks(links []string, baseURL string) []string {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil
	}
	return r.resolveAll(base, links)
}

func (r *LinkResolver) resolveAll(base *url.URL, hrefs []string) []string {
	seen := make(map[string]bool)
	var links []string

	for _, href := range hrefs {
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			continue
		}

		resolved, ok := resolveURL(base, href)
		if !ok || !r.allowedHost(base, resolved) {
			continue
		}

		link := websum.NormalizeURL(resolved.String())
		if seen[link] || !r.denylist.Match(link) {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}

	sort.Strings(links)
	return links
}

func parseBase(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, websum.Errorf(websum.EINVALID, "invalid base URL: %q", baseURL)
	}
	return base, nil
}

// resolveURL resolves href against base and keeps only http(s) results.
func resolveURL(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	return resolved, true
}

// allowedHost applies exact host matching, or the relaxed marker rule
// when configured.
func (r *LinkResolver) allowedHost(base, u *url.URL) bool {
	if strings.EqualFold(u.Host, base.Host) {
		return true
	}
	return r.relaxedMarker != "" && strings.Contains(strings.ToLower(u.Hostname()), r.relaxedMarker)
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
