package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Documentation generators reported as page categories.
const (
	Docusaurus = "Docusaurus"
	MkDocs     = "MkDocs"
	Sphinx     = "Sphinx"
	VitePress  = "VitePress"
	VuePress   = "VuePress"
	GitBook    = "GitBook"
	Nextra     = "Nextra"
)

// DetectGenerator identifies the documentation generator that produced
// a page. It checks the generator meta tag first, then CSS classes and
// data attributes unique to each generator. Returns "" when unknown.
func DetectGenerator(doc *goquery.Document) string {
	if name := generatorFromMeta(doc); name != "" {
		return name
	}

	switch {
	// __docusaurus_skipToContent_fallback is highly specific
	case has(doc, "#__docusaurus_skipToContent_fallback"),
		has(doc, ".theme-doc-sidebar-container"),
		has(doc, "[data-rh]") && has(doc, "[data-theme]"):
		return Docusaurus
	// data-md-* attributes are unique to MkDocs Material
	case has(doc, "[data-md-color-scheme]"),
		has(doc, "[data-md-component]"),
		has(doc, ".md-nav--primary"):
		return MkDocs
	case has(doc, ".toctree-wrapper"),
		has(doc, ".wy-nav-side"),
		has(doc, ".wy-menu-vertical"),
		has(doc, ".sphinxsidebar"):
		return Sphinx
	// VitePress before VuePress since it is the successor
	case has(doc, "#VPContent"),
		has(doc, ".VPDoc"),
		has(doc, ".VPDocAsideOutline"):
		return VitePress
	case has(doc, ".theme-default-content"),
		has(doc, ".sidebar-links"),
		has(doc, ".vuepress-navbar"):
		return VuePress
	case has(doc, "[data-testid='space.sidebar']"),
		has(doc, "[data-testid='page.desktopTableOfContents']"),
		hasGitBookClasses(doc):
		return GitBook
	case has(doc, ".nextra-navbar"),
		has(doc, ".nextra-sidebar"),
		has(doc, ".nextra-toc"):
		return Nextra
	}

	return ""
}

func generatorFromMeta(doc *goquery.Document) string {
	generator := strings.ToLower(metaContent(doc, "generator"))
	if generator == "" {
		return ""
	}

	for _, name := range []string{Sphinx, GitBook, Docusaurus, MkDocs, VitePress, VuePress, Nextra} {
		if strings.Contains(generator, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

func has(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasGitBookClasses requires at least two of the class names GitBook
// puts on the html element.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").First().Attr("class")
	if class == "" {
		return false
	}

	count := 0
	for _, marker := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, marker) {
			count++
		}
	}
	return count >= 2
}
