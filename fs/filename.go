package fs

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	unsafeCharsRe   = regexp.MustCompile(`[<>:"/\\|?*]`)
	titleNoiseRe    = regexp.MustCompile(`\s*[-–—]\s*(?:v\d+\.\d+\.\d+\w*|Documentation|\(.*?\))`)
	titleSpaceRe    = regexp.MustCompile(`\s+`)
	filenameCharsRe = regexp.MustCompile(`[^a-z0-9_-]`)
	underscoreRunRe = regexp.MustCompile(`_+`)
)

const (
	maxSegmentLength = 50
	maxTitleLength   = 50
)

// SanitizeFilename derives a path-safe name from a URL as host followed
// by its path segments, joined with underscores. Filesystem-unsafe
// characters become underscores and long segments are shortened to 47
// characters plus "...". An empty path becomes "index".
func SanitizeFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return unsafeCharsRe.ReplaceAllString(rawURL, "_")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		segments = []string{"index"}
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, unsafeCharsRe.ReplaceAllString(u.Host, "_"))
	for _, seg := range segments {
		seg, _, _ = strings.Cut(seg, "?")
		seg = unsafeCharsRe.ReplaceAllString(seg, "_")
		if utf8.RuneCountInString(seg) > maxSegmentLength {
			seg = string([]rune(seg)[:maxSegmentLength-3]) + "..."
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "_")
}

// SafeFilename derives a descriptive lower-case file stem from a page
// title. Version suffixes, "Documentation" and parenthesized asides are
// dropped. Without a title the last URL path segment is used, and when
// nothing usable remains the sanitized URL is returned.
func SafeFilename(title, rawURL string) string {
	if strings.TrimSpace(title) == "" {
		title = lastSegment(rawURL)
	}

	name := titleNoiseRe.ReplaceAllString(title, "")
	name = titleSpaceRe.ReplaceAllString(strings.TrimSpace(name), "_")
	name = filenameCharsRe.ReplaceAllString(strings.ToLower(name), "")
	name = strings.Trim(underscoreRunRe.ReplaceAllString(name, "_"), "_")

	if name == "" {
		return SanitizeFilename(rawURL)
	}
	return name
}

func lastSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return segments[len(segments)-1]
}

// SafeTitle keeps letters, digits, spaces, underscores and hyphens of
// a title, replaces everything else with underscores and truncates the
// result to 50 characters.
func SafeTitle(title string) string {
	var b strings.Builder
	n := 0
	for _, r := range title {
		if n == maxTitleLength {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		n++
	}
	return b.String()
}
