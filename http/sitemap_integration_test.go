//go:build integration

package http_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/fwojciec/websum"
	websumhttp "github.com/fwojciec/websum/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapSource_Integration_HtmxDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := &websum.URLFilter{
		Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)},
	}
	svc := websumhttp.NewSitemapSource(nil, websumhttp.WithFilter(filter))

	// htmx.org declares its sitemap in robots.txt
	urls, err := svc.Discover(ctx, "https://htmx.org")
	require.NoError(t, err)

	assert.NotEmpty(t, urls, "expected docs URLs from htmx.org sitemap")
	for _, u := range urls {
		assert.Contains(t, u, "/docs/")
	}
	t.Logf("Found %d docs URLs from htmx.org sitemap", len(urls))
}
