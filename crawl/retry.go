package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/siteindex"
)

// DefaultRetryBase is the first backoff delay of a RetryFetcher.
const DefaultRetryBase = 500 * time.Millisecond

// Backoff returns n delays doubling from base: base, 2*base, 4*base, ...
func Backoff(n int, base time.Duration) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for i := 0; i < n; i++ {
		delays = append(delays, base<<i)
	}
	return delays
}

// Ensure RetryFetcher implements siteindex.Fetcher at compile time.
var _ siteindex.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher retries transient fetch failures, those with code
// EUNAVAILABLE, once per configured delay. Other errors are returned
// immediately.
type RetryFetcher struct {
	next   siteindex.Fetcher
	delays []time.Duration

	// OnRetry, if set, is called before each wait.
	OnRetry func(url string, attempt int, err error)
}

// NewRetryFetcher wraps next. An empty delays slice disables retries.
func NewRetryFetcher(next siteindex.Fetcher, delays []time.Duration) *RetryFetcher {
	return &RetryFetcher{next: next, delays: delays}
}

// Fetch fetches url, retrying transient failures until the delays run out
// or ctx ends.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		html, err := f.next.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= len(f.delays) || siteindex.ErrorCode(err) != siteindex.EUNAVAILABLE {
			return "", lastErr
		}

		if f.OnRetry != nil {
			f.OnRetry(url, attempt+2, err)
		}

		timer := time.NewTimer(f.delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}
