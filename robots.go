package siteindex

import "context"

// RobotsUserAgent is the user agent robots policies are evaluated for.
const RobotsUserAgent = "*"

// RobotsPolicy decides whether a URL may be crawled.
type RobotsPolicy interface {
	Allowed(rawURL string) bool
}

// RobotsLoader loads the robots policy of an origin.
type RobotsLoader interface {
	// Load fetches and parses the origin's robots.txt.
	// Load fails open: when the policy cannot be determined the returned
	// policy allows every URL.
	Load(ctx context.Context, origin *Origin) RobotsPolicy
}

// AllowAll is a RobotsPolicy that allows every URL.
var AllowAll RobotsPolicy = allowAll{}

type allowAll struct{}

func (allowAll) Allowed(string) bool { return true }
