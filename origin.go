package siteindex

import (
	"net/url"
	"strings"
)

// Origin is the crawl boundary: a scheme, a host and a base URL prefix.
type Origin struct {
	raw       string
	base      *url.URL
	canonical string
}

// ParseOrigin parses the configured base URL of a crawl.
func ParseOrigin(rawURL string) (*Origin, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "unsupported scheme %q in base URL", u.Scheme)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "base URL %q must include a host", rawURL)
	}
	return &Origin{
		raw:       u.String(),
		base:      u,
		canonical: NormalizeURL(u),
	}, nil
}

// String returns the base URL as configured.
func (o *Origin) String() string {
	return o.raw
}

// StartURL returns the normalized base URL, the first page of every crawl.
func (o *Origin) StartURL() string {
	return o.canonical
}

// RobotsURL returns the location of the origin's robots.txt.
func (o *Origin) RobotsURL() string {
	u := url.URL{Scheme: o.base.Scheme, Host: o.base.Host, Path: "/robots.txt"}
	return u.String()
}

// Host returns the host of the origin.
func (o *Origin) Host() string {
	return o.base.Host
}

// Resolve resolves href against pageURL and normalizes the result.
// The bool result is false when href cannot be resolved or falls outside the origin.
func (o *Origin) Resolve(pageURL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	normalized := NormalizeURL(page.ResolveReference(ref))
	if !o.Contains(normalized) {
		return "", false
	}
	return normalized, true
}

// Contains reports whether rawURL shares scheme and host with the origin
// and is prefixed by its base URL.
func (o *Origin) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Scheme, o.base.Scheme) || !strings.EqualFold(u.Host, o.base.Host) {
		return false
	}
	normalized := NormalizeURL(u)
	return normalized == o.canonical ||
		strings.HasPrefix(normalized, o.canonical+"/") ||
		strings.HasPrefix(normalized, o.canonical+"?")
}

// NormalizeURL lowercases the host and drops the fragment and any trailing slashes.
func NormalizeURL(u *url.URL) string {
	c := *u
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""
	c.RawFragment = ""
	return strings.TrimRight(c.String(), "/")
}
