package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteindex"
)

// Ensure LoggingCrawler implements siteindex.Crawler.
var _ siteindex.Crawler = (*LoggingCrawler)(nil)

// LoggingCrawler wraps a Crawler with logging.
type LoggingCrawler struct {
	next   siteindex.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next siteindex.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Crawl delegates to the wrapped crawler and logs the outcome.
func (c *LoggingCrawler) Crawl(ctx context.Context, limits siteindex.CrawlLimits) (result *siteindex.CrawlResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"max_pages", limits.MaxPages,
			"max_depth", limits.MaxDepth,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"status", result.Status,
				"pages", result.PagesIndexed,
				"persisted", result.PersistedToDisk,
				"cached", result.UsedCachedIndex,
			)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
			c.logger.Error("crawl", attrs...)
			return
		}
		c.logger.Info("crawl", attrs...)
	}(time.Now())
	return c.next.Crawl(ctx, limits)
}
