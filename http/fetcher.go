// Package http fetches static pages, robots.txt and sitemaps over plain
// HTTP, for sites that render without JavaScript.
package http

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/websum"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout matches rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the crawler to servers.
const DefaultUserAgent = "websum/1.0 (+https://github.com/fwojciec/websum)"

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 20 << 20

var _ websum.Fetcher = (*Fetcher)(nil)

// Fetcher downloads page HTML with a single GET and no script execution.
// Bodies are decoded to UTF-8 using the declared or sniffed charset.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// WithTimeout bounds each request. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *fetcherConfig) {
		c.userAgent = ua
	}
}

// WithClient supplies the transport and cookie settings. Its timeout is
// replaced by the one from WithTimeout.
func WithClient(client *http.Client) Option {
	return func(c *fetcherConfig) {
		c.client = client
	}
}

// NewFetcher returns a Fetcher. The supplied client, if any, is copied so
// its Timeout field is left untouched.
func NewFetcher(opts ...Option) *Fetcher {
	cfg := fetcherConfig{timeout: DefaultFetchTimeout, userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := new(http.Client)
	if cfg.client != nil {
		*client = *cfg.client
	}
	client.Timeout = cfg.timeout
	return &Fetcher{client: client, userAgent: cfg.userAgent}
}

// Fetch returns the page body as UTF-8 HTML. Any status other than 200 is
// EFETCH, and a body that is plainly not HTML is EPROCESSING.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", websum.Errorf(websum.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", websum.Errorf(websum.EFETCH, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", websum.Errorf(websum.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if !htmlLike(contentType) {
		return "", websum.Errorf(websum.EPROCESSING, "%s is %s, not HTML", url, contentType)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", websum.Errorf(websum.EFETCH, "read %s: %v", url, err)
	}
	if len(raw) == 0 {
		return "", nil
	}

	body, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", websum.Errorf(websum.EPROCESSING, "decode %s: %v", url, err)
	}
	decoded, err := io.ReadAll(body)
	if err != nil {
		return "", websum.Errorf(websum.EPROCESSING, "decode %s: %v", url, err)
	}
	return string(decoded), nil
}

// htmlLike accepts HTML and XHTML, plus missing or generic types that
// servers commonly send for pages.
func htmlLike(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain", "application/octet-stream":
		return true
	}
	return !strings.HasPrefix(mediaType, "image/") &&
		!strings.HasPrefix(mediaType, "video/") &&
		!strings.HasPrefix(mediaType, "audio/") &&
		!strings.HasPrefix(mediaType, "application/")
}

// Close is a no-op; the client holds no resources of its own.
func (f *Fetcher) Close() error {
	return nil
}
