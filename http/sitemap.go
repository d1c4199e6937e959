package http

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/websum"
)

var _ websum.URLSource = (*SitemapSource)(nil)

// maxIndexDepth bounds how deep sitemap indexes may nest.
const maxIndexDepth = 4

// SitemapSource seeds a crawl with the pages a site lists in its sitemaps.
// Sitemaps come from robots.txt Sitemap directives, or /sitemap.xml when
// robots.txt declares none. Indexes are followed and gzipped sitemaps are
// decompressed.
type SitemapSource struct {
	client *http.Client
	robots *RobotsPolicy
	filter *websum.URLFilter
}

// SitemapOption configures a SitemapSource.
type SitemapOption func(*SitemapSource)

// WithRobots shares a RobotsPolicy so robots.txt is fetched once per host.
func WithRobots(p *RobotsPolicy) SitemapOption {
	return func(s *SitemapSource) {
		s.robots = p
	}
}

// WithFilter drops discovered URLs that do not pass the filter.
func WithFilter(f *websum.URLFilter) SitemapOption {
	return func(s *SitemapSource) {
		s.filter = f
	}
}

// NewSitemapSource returns a SitemapSource using client, or
// http.DefaultClient when client is nil.
func NewSitemapSource(client *http.Client, opts ...SitemapOption) *SitemapSource {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapSource{client: client}
	for _, opt := range opts {
		opt(s)
	}
	if s.robots == nil {
		s.robots = NewRobotsPolicy(client)
	}
	return s
}

// Discover returns the page URLs listed for the site of seedURL, in
// sitemap order without duplicates. A seed with a path such as /docs only
// yields pages under /docs/. A site without sitemaps yields an empty,
// non-nil slice.
func (s *SitemapSource) Discover(ctx context.Context, seedURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Host == "" {
		return nil, websum.Errorf(websum.EINVALID, "invalid seed URL %q", seedURL)
	}

	w := &sitemapWalk{
		src:    s,
		prefix: scopePrefix(seed.Path),
		seen:   make(map[string]bool),
		listed: make(map[string]bool),
		urls:   []string{},
	}

	root := &url.URL{Scheme: seed.Scheme, Host: seed.Host}
	declared := s.robots.Sitemaps(ctx, root.String())
	if len(declared) == 0 {
		fallback := root.JoinPath("sitemap.xml").String()
		if err := w.visit(ctx, fallback, 0); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// No usable /sitemap.xml means the site has no sitemap.
			return []string{}, nil
		}
		return w.urls, nil
	}

	for _, loc := range declared {
		if err := w.visit(ctx, loc, 0); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// sitemapWalk collects page URLs across the sitemaps of one Discover call.
type sitemapWalk struct {
	src    *SitemapSource
	prefix string
	seen   map[string]bool // sitemaps already read
	listed map[string]bool // page URLs already collected
	urls   []string
}

func (w *sitemapWalk) visit(ctx context.Context, loc string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.seen[loc] || depth > maxIndexDepth {
		return nil
	}
	w.seen[loc] = true

	doc, err := w.src.load(ctx, loc)
	if err != nil {
		return err
	}
	root := doc.Root()
	if root == nil {
		return websum.Errorf(websum.EPARSE, "empty sitemap %s", loc)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, page := range locs(root, "url") {
		if w.listed[page] || !w.keep(page) {
			continue
		}
		w.listed[page] = true
		w.urls = append(w.urls, page)
	}
	return nil
}

func (w *sitemapWalk) keep(page string) bool {
	if w.prefix != "" {
		u, err := url.Parse(page)
		if err != nil || !strings.HasPrefix(u.Path+"/", w.prefix) {
			return false
		}
	}
	return w.src.filter.Match(page)
}

// scopePrefix turns a seed path into the directory prefix discovered
// pages must share, so /docs matches /docs and /docs/intro but not
// /documentation. The site root has no prefix.
func scopePrefix(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return ""
	}
	return path + "/"
}

// locs returns the trimmed, non-empty <loc> values of the named children.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// load fetches and parses one sitemap document.
func (s *SitemapSource) load(ctx context.Context, loc string) (*etree.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, websum.Errorf(websum.EINVALID, "sitemap request %s: %v", loc, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, websum.Errorf(websum.EFETCH, "fetch sitemap %s: %v", loc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, websum.Errorf(websum.EFETCH, "HTTP %d for %s", resp.StatusCode, loc)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(req.URL.Path, ".gz") && resp.Header.Get("Content-Encoding") == "" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, websum.Errorf(websum.EPARSE, "decompress sitemap %s: %v", loc, err)
		}
		defer zr.Close()
		body = zr
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, websum.Errorf(websum.EPARSE, "parse sitemap %s: %v", loc, err)
	}
	return doc, nil
}
