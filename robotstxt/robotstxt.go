// Package robotstxt loads robots.txt policies using github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/siteindex"
	"github.com/temoto/robotstxt"
)

// MaxBodyBytes caps how much of a robots.txt response is read.
const MaxBodyBytes = 512 << 10

// Ensure Loader implements siteindex.RobotsLoader at compile time.
var _ siteindex.RobotsLoader = (*Loader)(nil)

// Loader fetches robots.txt for an origin. Any failure yields
// siteindex.AllowAll.
type Loader struct {
	client    *http.Client
	userAgent string
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client, userAgent string) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client, userAgent: userAgent}
}

// Load fetches and parses the origin's robots.txt.
func (l *Loader) Load(ctx context.Context, origin *siteindex.Origin) siteindex.RobotsPolicy {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin.RobotsURL(), nil)
	if err != nil {
		return siteindex.AllowAll
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return siteindex.AllowAll
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return siteindex.AllowAll
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return siteindex.AllowAll
	}
	return Parse(body)
}

// Parse builds a policy from robots.txt content. Unparsable content
// allows everything.
func Parse(body []byte) siteindex.RobotsPolicy {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return siteindex.AllowAll
	}
	return &Policy{data: data}
}

// Policy evaluates URLs against parsed robots.txt rules for the wildcard agent.
type Policy struct {
	data *robotstxt.RobotsData
}

// Allowed reports whether rawURL may be crawled.
func (p *Policy) Allowed(rawURL string) bool {
	if p == nil || p.data == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return p.data.TestAgent(path, siteindex.RobotsUserAgent)
}
