package crawl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/siteindex"
)

// DefaultDeadline is the wall-clock budget of one crawl.
const DefaultDeadline = 45 * time.Second

// Ensure Session implements siteindex.Crawler at compile time.
var _ siteindex.Crawler = (*Session)(nil)

// Session runs crawls of one origin against a live index.
// Crawls are serialized; each run builds a private staging index that is
// published to the live index only when the run finishes with documents.
type Session struct {
	Origin    *siteindex.Origin
	Index     *siteindex.IndexStore
	Robots    siteindex.RobotsLoader
	Scheduler *Scheduler

	// PageCap and DepthCap bound caller-supplied limits. A PageCap below 1
	// selects siteindex.DefaultPageCap and a negative DepthCap selects
	// siteindex.DefaultDepthCap; a DepthCap of 0 restricts crawls to the
	// start URL.
	PageCap  int
	DepthCap int

	// Deadline bounds each crawl. Zero selects DefaultDeadline.
	Deadline time.Duration

	mu    sync.Mutex
	stats Stats
}

// Crawl rebuilds the index within the session deadline.
// A run abandoned at the deadline serves the index that was live before it
// started, or the partial result when there was none. A run whose last
// fetch completes after the deadline still counts as finished. A run that finds
// nothing keeps the previous index. Only cancellation of ctx itself is
// returned as an error.
func (s *Session) Crawl(ctx context.Context, limits siteindex.CrawlLimits) (*siteindex.CrawlResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limits = limits.Clamp(s.PageCap, s.DepthCap)

	cache := s.Index.Documents()
	if len(cache) == 0 {
		cache = s.Index.Load(ctx)
	}

	deadline := s.deadline()
	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	robots := siteindex.AllowAll
	if s.Robots != nil {
		robots = s.Robots.Load(runCtx, s.Origin)
	}

	staging := s.Index.Staging()
	stats, runErr := s.Scheduler.Run(runCtx, limits, robots, staging)
	s.stats = stats
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &siteindex.CrawlResult{
		MaxPages: limits.MaxPages,
		MaxDepth: limits.MaxDepth,
	}

	switch {
	case runErr != nil:
		result.Status = siteindex.CrawlTimeout
		if len(cache) > 0 {
			s.Index.Replace(cache)
			result.UsedCachedIndex = true
		} else {
			s.Index.Replace(staging.Documents())
		}
		result.Note = fmt.Sprintf("Crawl of %s timed out after %s; serving %d page(s).",
			s.Origin, deadline, s.Index.Len())

	case staging.Len() == 0:
		result.Status = siteindex.CrawlEmpty
		s.Index.Replace(cache)
		result.UsedCachedIndex = len(cache) > 0
		result.Note = fmt.Sprintf("Crawl of %s found no indexable pages; serving %d page(s).",
			s.Origin, len(cache))

	default:
		result.Status = siteindex.CrawlOK
		s.Index.Replace(staging.Documents())
		result.PersistedToDisk = s.Index.Save(ctx) == nil
		result.Note = fmt.Sprintf("Indexed %d page(s) from %s (limit %d).",
			s.Index.Len(), s.Origin, limits.MaxPages)
	}

	docs := s.Index.Documents()
	result.PagesIndexed = len(docs)
	result.Pages = siteindex.Summarize(docs)
	return result, nil
}

// Restore seeds an empty live index from the stored snapshot and reports
// the number of documents being served.
func (s *Session) Restore(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Index.Len() == 0 {
		if docs := s.Index.Load(ctx); len(docs) > 0 {
			s.Index.Replace(docs)
		}
	}
	return s.Index.Len()
}

// Stats returns the scheduler statistics of the most recent crawl.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Session) deadline() time.Duration {
	if s.Deadline > 0 {
		return s.Deadline
	}
	return DefaultDeadline
}

// CrawlThenAsk crawls and then answers question against the fresh index.
// The output is the crawl summary, a blank line, and the answer.
func CrawlThenAsk(ctx context.Context, crawler siteindex.Crawler, asker siteindex.Asker, question string, limits siteindex.CrawlLimits, topK int) (string, error) {
	result, err := crawler.Crawl(ctx, limits)
	if err != nil {
		return "", err
	}
	answer, err := asker.Ask(ctx, question, topK)
	if err != nil {
		return "", err
	}
	return result.Summary() + "\n\n" + answer, nil
}
