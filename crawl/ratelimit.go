package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/siteindex"
	"golang.org/x/time/rate"
)

var _ siteindex.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the default politeness rate for one host.
const DefaultRequestsPerSecond = 4

// DomainLimiter provides per-domain rate limiting using token buckets.
// It creates a separate rate limiter for each domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests per second limit.
// Each domain gets its own limiter with a burst of 1 (no bursting allowed).
// A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limit := rate.Inf
		if d.rps > 0 {
			limit = rate.Limit(d.rps)
		}
		limiter = rate.NewLimiter(limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
