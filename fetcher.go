package siteindex

import "context"

// Fetcher retrieves raw markup from URLs.
type Fetcher interface {
	// Fetch issues a single GET for url and returns the response body.
	// Permanent client errors are returned with code ENOTFOUND and
	// transient failures with EUNAVAILABLE; crawlers treat both as an
	// absent page.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
