package websum

import (
	"net/url"
	"strings"
)

// NormalizeURL lower-cases the host and strips the fragment and a single
// trailing slash so that equivalent links share one cache and frontier
// key. Unparseable input is returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	s := u.String()
	if u.RawQuery == "" && strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

// EnsureScheme prefixes https:// to URLs given without a scheme.
func EnsureScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

// Host returns the lower-cased host of a URL, or "" when it has none.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// ShortenURL fits raw into width characters for progress output. The tail
// of a URL names the page, so the head is what gets elided.
func ShortenURL(raw string, width int) string {
	switch {
	case width <= 0:
		return ""
	case len(raw) <= width:
		return raw
	case width < 4:
		return raw[:width]
	}
	return "..." + raw[len(raw)-width+3:]
}
