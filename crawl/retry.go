package crawl

import (
	"context"
	"math"
	"time"

	"github.com/fwojciec/websum"
)

// FetchFunc is the signature for a page fetch function.
type FetchFunc func(ctx context.Context, url string) (*websum.FetchResult, error)

// RetryFunc is called before each retry with the 1-based number of the
// attempt about to be made and the reason the previous one failed.
type RetryFunc func(url string, attempt int, reason string)

// RetryPolicy describes how failed fetches are retried.
// The delay after failed attempt n (0-based) is Base^n units.
type RetryPolicy struct {
	MaxAttempts int
	Base        float64
	Unit        time.Duration
}

// DefaultRetryPolicy returns three attempts with 1s and 2s backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Base: 2, Unit: time.Second}
}

// Delays returns the waits between attempts.
func (p RetryPolicy) Delays() []time.Duration {
	n := max(p.MaxAttempts, 1) - 1
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Duration(math.Pow(p.Base, float64(i)) * float64(p.Unit))
	}
	return delays
}

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return DefaultRetryPolicy().Delays()
}

// FetchWithRetry attempts to fetch a URL with exponential backoff retry logic
// using DefaultRetryDelays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc) (*websum.FetchResult, error) {
	return FetchWithRetryDelays(ctx, url, fetch, onRetry, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
//
// A result with Success == false is retried; the last such result is
// returned once attempts run out. An error from fetch is not retried.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc, delays []time.Duration) (*websum.FetchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var last *websum.FetchResult
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if result != nil && result.Success {
			return result, nil
		}
		if result == nil {
			result = &websum.FetchResult{URL: url, Error: "no result"}
		}
		last = result

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if onRetry != nil {
			onRetry(url, attempt+2, last.Error)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return last, nil
}
