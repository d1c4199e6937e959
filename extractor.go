package websum

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The page URL is used to resolve relative references.
	Extract(html string, pageURL string) (*ExtractResult, error)
}

// MetadataExtractor reads page metadata from HTML.
// Implementations never fail; unparseable fields are left empty.
type MetadataExtractor interface {
	Extract(html string) Metadata
}

// LinkExtractor finds same-site links worth following.
type LinkExtractor interface {
	// ExtractLinks returns sorted, deduplicated absolute URLs found in
	// the anchors of html.
	ExtractLinks(html string, baseURL string) ([]string, error)

	// FilterLinks applies the same rules to an already collected list.
	FilterLinks(links []string, baseURL string) []string
}
