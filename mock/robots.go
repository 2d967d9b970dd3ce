package mock

import (
	"context"

	"github.com/fwojciec/siteindex"
)

var _ siteindex.RobotsLoader = (*RobotsLoader)(nil)

// RobotsLoader is a mock implementation of siteindex.RobotsLoader.
type RobotsLoader struct {
	LoadFn func(ctx context.Context, origin *siteindex.Origin) siteindex.RobotsPolicy
}

func (l *RobotsLoader) Load(ctx context.Context, origin *siteindex.Origin) siteindex.RobotsPolicy {
	return l.LoadFn(ctx, origin)
}

var _ siteindex.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of siteindex.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(rawURL string) bool
}

func (p *RobotsPolicy) Allowed(rawURL string) bool {
	return p.AllowedFn(rawURL)
}
