package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/websum"
	"github.com/temoto/robotstxt"
)

var _ websum.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy answers robots.txt questions for any host, fetching and
// caching each host's robots.txt on first use. Hosts whose robots.txt
// cannot be fetched allow everything.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// RobotsOption configures a RobotsPolicy.
type RobotsOption func(*RobotsPolicy)

// WithRobotsUserAgent sets the agent name matched against robots groups.
func WithRobotsUserAgent(ua string) RobotsOption {
	return func(p *RobotsPolicy) {
		p.userAgent = ua
	}
}

// NewRobotsPolicy creates a RobotsPolicy. If client is nil,
// http.DefaultClient is used.
func NewRobotsPolicy(client *http.Client, opts ...RobotsOption) *RobotsPolicy {
	if client == nil {
		client = http.DefaultClient
	}
	p := &RobotsPolicy{
		client:    client,
		userAgent: DefaultUserAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Allowed reports whether robots.txt permits crawling rawURL.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	data := p.robots(ctx, u)
	if data == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, p.userAgent)
}

// Sitemaps returns the Sitemap directives of the host serving rawURL.
func (p *RobotsPolicy) Sitemaps(ctx context.Context, rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	data := p.robots(ctx, u)
	if data == nil {
		return nil
	}
	return data.Sitemaps
}

// robots returns the parsed robots.txt for u's host, or nil when it
// could not be fetched.
func (p *RobotsPolicy) robots(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	p.mu.Lock()
	data, ok := p.hosts[key]
	p.mu.Unlock()
	if ok {
		return data
	}

	data = p.fetch(ctx, key+"/robots.txt")
	if ctx.Err() != nil {
		return data
	}

	p.mu.Lock()
	p.hosts[key] = data
	p.mu.Unlock()
	return data
}

func (p *RobotsPolicy) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data
}
