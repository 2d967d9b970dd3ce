// Package http provides an HTTP-based implementation of siteindex.Fetcher.
// Pages are fetched with a single GET and no JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/siteindex"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// UserAgent identifies the crawler to origin servers.
const UserAgent = "siteindex-crawler/1.0"

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 5 << 20

// Ensure Fetcher implements siteindex.Fetcher at compile time.
var _ siteindex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Redirects are followed with the http.Client defaults.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Client returns the underlying HTTP client so other components (robots.txt
// loading) can share its timeout and connection pool.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch retrieves the HTML content from the given URL.
// Client errors (4xx other than 408 and 429) are reported with code
// ENOTFOUND; transport failures and the remaining non-2xx statuses with
// EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", siteindex.Errorf(siteindex.EUNAVAILABLE, "build request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", siteindex.Errorf(siteindex.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", siteindex.Errorf(statusCode(resp.StatusCode), "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", siteindex.Errorf(siteindex.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// statusCode maps a non-2xx HTTP status to an application error code.
func statusCode(status int) string {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return siteindex.EUNAVAILABLE
	case status >= 400 && status < 500:
		return siteindex.ENOTFOUND
	default:
		return siteindex.EUNAVAILABLE
	}
}
