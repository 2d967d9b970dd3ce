package mock

import (
	"context"

	"github.com/fwojciec/siteindex"
)

var _ siteindex.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of siteindex.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, limits siteindex.CrawlLimits) (*siteindex.CrawlResult, error)
}

func (c *Crawler) Crawl(ctx context.Context, limits siteindex.CrawlLimits) (*siteindex.CrawlResult, error) {
	return c.CrawlFn(ctx, limits)
}
