package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/websum"
	"github.com/fwojciec/websum/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Delays(t *testing.T) {
	t.Parallel()

	t.Run("default policy waits 1s then 2s", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, crawl.DefaultRetryPolicy().Delays())
	})

	t.Run("delay grows as powers of base", func(t *testing.T) {
		t.Parallel()
		p := crawl.RetryPolicy{MaxAttempts: 4, Base: 3, Unit: time.Millisecond}
		assert.Equal(t, []time.Duration{time.Millisecond, 3 * time.Millisecond, 9 * time.Millisecond}, p.Delays())
	})

	t.Run("single attempt has no delays", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.RetryPolicy{MaxAttempts: 1, Base: 2, Unit: time.Second}.Delays())
		assert.Empty(t, crawl.RetryPolicy{}.Delays())
	})
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0}

	t.Run("returns first successful result", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (*websum.FetchResult, error) {
			calls++
			return &websum.FetchResult{URL: url, Success: true, Markdown: "ok"}, nil
		}

		result, err := crawl.FetchWithRetryDelays(context.Background(), "https://x.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries unsuccessful results until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var retries []int
		fetch := func(_ context.Context, url string) (*websum.FetchResult, error) {
			calls++
			if calls < 3 {
				return &websum.FetchResult{URL: url, Error: "503"}, nil
			}
			return &websum.FetchResult{URL: url, Success: true}, nil
		}
		onRetry := func(_ string, attempt int, reason string) {
			retries = append(retries, attempt)
			assert.Equal(t, "503", reason)
		}

		result, err := crawl.FetchWithRetryDelays(context.Background(), "https://x.com", fetch, onRetry, noDelays)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retries)
	})

	t.Run("returns last failure after attempts run out", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, url string) (*websum.FetchResult, error) {
			calls++
			return &websum.FetchResult{URL: url, Error: "timeout"}, nil
		}

		result, err := crawl.FetchWithRetryDelays(context.Background(), "https://x.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "timeout", result.Error)
		assert.Equal(t, 3, calls)
	})

	t.Run("treats nil result as failure", func(t *testing.T) {
		t.Parallel()

		fetch := func(_ context.Context, _ string) (*websum.FetchResult, error) {
			return nil, nil
		}

		result, err := crawl.FetchWithRetryDelays(context.Background(), "https://x.com", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "https://x.com", result.URL)
	})

	t.Run("does not retry errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (*websum.FetchResult, error) {
			calls++
			return nil, errors.New("misconfigured")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://x.com", fetch, nil, noDelays)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("aborts backoff when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, url string) (*websum.FetchResult, error) {
			cancel()
			return &websum.FetchResult{URL: url, Error: "503"}, nil
		}

		start := time.Now()
		_, err := crawl.FetchWithRetryDelays(ctx, "https://x.com", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}
