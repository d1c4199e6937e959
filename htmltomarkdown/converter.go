// Package htmltomarkdown renders extracted page HTML as CommonMark with
// pipe tables, using html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/websum"
)

var _ websum.Converter = (*Converter)(nil)

// Converter is safe for concurrent use; the underlying converter keeps no
// per-call state.
type Converter struct {
	conv *converter.Converter
}

// NewConverter returns a Converter producing fenced code blocks, pipe
// tables and ~~strikethrough~~.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithCodeBlockFence("```"),
			),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		)),
	}
}

// Convert renders html as Markdown with surrounding blank lines trimmed.
// Links and image sources are made absolute against baseURL.
func (c *Converter) Convert(html string, baseURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", websum.Errorf(websum.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html, converter.WithDomain(baseURL))
	if err != nil {
		return "", websum.Errorf(websum.EPROCESSING, "convert %s: %v", baseURL, err)
	}
	return strings.TrimSpace(md), nil
}
