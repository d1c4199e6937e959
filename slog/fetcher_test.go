package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/mock"
	wslog "github.com/fwojciec/websum/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := wslog.NewLoggingFetcher(inner, debugLogger(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := wslog.NewLoggingFetcher(inner, debugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})

	t.Run("silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html></html>", nil
			},
		}

		fetcher := wslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := wslog.NewLoggingFetcher(inner, debugLogger(&buf))
	err := fetcher.Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingPageFetcher_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("logs successful page at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageFetcher{
			FetchPageFn: func(ctx context.Context, url string) (*websum.FetchResult, error) {
				return &websum.FetchResult{URL: url, Success: true, Markdown: "# Hi", Links: []string{"a", "b"}}, nil
			},
		}

		pf := wslog.NewLoggingPageFetcher(inner, debugLogger(&buf))
		res, err := pf.FetchPage(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.True(t, res.Success)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "markdown_bytes=4")
		assert.Contains(t, output, "links=2")
	})

	t.Run("logs failed page at warn with reason", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageFetcher{
			FetchPageFn: func(ctx context.Context, url string) (*websum.FetchResult, error) {
				return &websum.FetchResult{URL: url, Error: "status 503"}, nil
			},
		}

		pf := wslog.NewLoggingPageFetcher(inner, debugLogger(&buf))
		res, err := pf.FetchPage(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.False(t, res.Success)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "reason=\"status 503\"")
	})

	t.Run("logs returned error at warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PageFetcher{
			FetchPageFn: func(ctx context.Context, url string) (*websum.FetchResult, error) {
				return nil, context.Canceled
			},
		}

		pf := wslog.NewLoggingPageFetcher(inner, debugLogger(&buf))
		_, err := pf.FetchPage(context.Background(), "https://example.com/a")

		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, buf.String(), "err=\"context canceled\"")
	})
}
