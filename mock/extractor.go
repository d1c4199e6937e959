package mock

import "github.com/fwojciec/websum"

var (
	_ websum.Extractor         = (*Extractor)(nil)
	_ websum.MetadataExtractor = (*MetadataExtractor)(nil)
	_ websum.LinkExtractor     = (*LinkExtractor)(nil)
	_ websum.Converter         = (*Converter)(nil)
)

// Extractor is a mock implementation of websum.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*websum.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*websum.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

// MetadataExtractor is a mock implementation of websum.MetadataExtractor.
type MetadataExtractor struct {
	ExtractFn func(html string) websum.Metadata
}

func (e *MetadataExtractor) Extract(html string) websum.Metadata {
	return e.ExtractFn(html)
}

// LinkExtractor is a mock implementation of websum.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
	FilterLinksFn  func(links []string, baseURL string) []string
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

func (e *LinkExtractor) FilterLinks(links []string, baseURL string) []string {
	return e.FilterLinksFn(links, baseURL)
}

// Converter is a mock implementation of websum.Converter.
type Converter struct {
	ConvertFn func(html, baseURL string) (string, error)
}

func (c *Converter) Convert(html, baseURL string) (string, error) {
	return c.ConvertFn(html, baseURL)
}
