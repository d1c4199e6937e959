package goquery_test

import (
	"strings"
	"testing"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/websum/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "docusaurus skip link",
			html: `<html data-theme="light"><body><a id="__docusaurus_skipToContent_fallback" href="#x">Skip</a></body></html>`,
			want: goquery.Docusaurus,
		},
		{
			name: "docusaurus data attributes",
			html: `<html data-theme="dark" data-rh="lang"><body></body></html>`,
			want: goquery.Docusaurus,
		},
		{
			name: "mkdocs material color scheme",
			html: `<html><body data-md-color-scheme="default"></body></html>`,
			want: goquery.MkDocs,
		},
		{
			name: "sphinx read the docs theme",
			html: `<html><body><nav class="wy-nav-side"></nav></body></html>`,
			want: goquery.Sphinx,
		},
		{
			name: "vitepress content",
			html: `<html><body><div id="VPContent"></div></body></html>`,
			want: goquery.VitePress,
		},
		{
			name: "vuepress theme",
			html: `<html><body><div class="theme-default-content"></div></body></html>`,
			want: goquery.VuePress,
		},
		{
			name: "gitbook html classes",
			html: `<html class="circular-corners theme-clean"><body></body></html>`,
			want: goquery.GitBook,
		},
		{
			name: "single gitbook class is not enough",
			html: `<html class="tint"><body></body></html>`,
			want: "",
		},
		{
			name: "nextra sidebar",
			html: `<html><body><aside class="nextra-sidebar"></aside></body></html>`,
			want: goquery.Nextra,
		},
		{
			name: "generator meta tag wins",
			html: `<html><head><meta name="generator" content="Sphinx 7.2"></head><body><div id="VPContent"></div></body></html>`,
			want: goquery.Sphinx,
		},
		{
			name: "unknown",
			html: `<html><body><main>plain</main></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := pq.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			assert.Equal(t, tt.want, goquery.DetectGenerator(doc))
		})
	}
}
