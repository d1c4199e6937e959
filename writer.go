package websum

import (
	"context"
	"strings"
)

// SummaryFormat selects the knowledge-base output layout.
type SummaryFormat string

// Supported output layouts.
const (
	// FormatStandard writes a Markdown file plus a JSON sidecar per page.
	FormatStandard SummaryFormat = "standard"
	// FormatCondensed writes a single annotated Markdown file per page.
	FormatCondensed SummaryFormat = "condensed"
)

// ParseSummaryFormat parses a format name.
func ParseSummaryFormat(s string) (SummaryFormat, error) {
	switch SummaryFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatStandard, "":
		return FormatStandard, nil
	case FormatCondensed, "unified":
		return FormatCondensed, nil
	}
	return "", Errorf(EINVALID, "unknown summary format %q (want standard or condensed)", s)
}

// KnowledgeBaseWriter persists a processed page.
// Writing the same logical page twice overwrites the earlier artifacts.
type KnowledgeBaseWriter interface {
	// Write persists the page and returns the path of the primary artifact.
	Write(ctx context.Context, page *PageResult) (string, error)
}
