// Package crawl walks one origin breadth-first and publishes the result
// to a live index.
package crawl

import (
	"context"

	"github.com/fwojciec/siteindex"
)

// Stats counts what happened during one scheduler run.
type Stats struct {
	Fetched       int
	Failed        int
	SkippedDepth  int
	SkippedRobots int
	Discovered    int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type    ProgressType
	URL     string
	Depth   int
	Bytes   int
	Indexed int
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressFetched ProgressType = iota
	ProgressFailed
	ProgressSkipped
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Scheduler walks an origin breadth-first, one fetch at a time.
type Scheduler struct {
	Origin      *siteindex.Origin
	Fetcher     siteindex.Fetcher
	Text        siteindex.TextExtractor
	Links       siteindex.LinkExtractor
	RateLimiter siteindex.DomainLimiter
	Progress    ProgressFunc
}

// Run crawls from the origin's start URL into index until the frontier is
// exhausted or index holds limits.MaxPages documents. Fetch failures drop
// the URL and the walk continues. If ctx ends first, Run returns the
// statistics so far and the context error; documents appended up to that
// point stay in index.
func (s *Scheduler) Run(ctx context.Context, limits siteindex.CrawlLimits, robots siteindex.RobotsPolicy, index *siteindex.IndexStore) (Stats, error) {
	var stats Stats
	if robots == nil {
		robots = siteindex.AllowAll
	}

	frontier := NewFrontier()
	frontier.Push(s.Origin.StartURL(), 0)

	for frontier.Len() > 0 && index.Len() < limits.MaxPages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		item, _ := frontier.Pop()

		if item.Depth > limits.MaxDepth {
			stats.SkippedDepth++
			s.report(ProgressEvent{Type: ProgressSkipped, URL: item.URL, Depth: item.Depth})
			continue
		}
		if !robots.Allowed(item.URL) {
			stats.SkippedRobots++
			s.report(ProgressEvent{Type: ProgressSkipped, URL: item.URL, Depth: item.Depth})
			continue
		}

		if err := s.wait(ctx); err != nil {
			return stats, err
		}

		html, err := s.Fetcher.Fetch(ctx, item.URL)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			s.report(ProgressEvent{Type: ProgressFailed, URL: item.URL, Depth: item.Depth, Error: err})
			continue
		}
		stats.Fetched++

		if text := s.Text.ExtractText(html); text != "" {
			index.Append(siteindex.Document{URL: item.URL, Text: text})
		}

		for _, link := range s.Links.ExtractLinks(html, item.URL) {
			if frontier.Push(link, item.Depth+1) {
				stats.Discovered++
			}
		}

		s.report(ProgressEvent{
			Type:    ProgressFetched,
			URL:     item.URL,
			Depth:   item.Depth,
			Bytes:   len(html),
			Indexed: index.Len(),
		})
	}

	return stats, nil
}

// wait blocks on the rate limiter. A limiter error means the wait
// would outlast ctx, which ends the run like a cancellation.
func (s *Scheduler) wait(ctx context.Context) error {
	if s.RateLimiter == nil {
		return nil
	}
	err := s.RateLimiter.Wait(ctx, s.Origin.Host())
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, ok := ctx.Deadline(); ok {
		return context.DeadlineExceeded
	}
	return nil
}

func (s *Scheduler) report(event ProgressEvent) {
	if s.Progress != nil {
		s.Progress(event)
	}
}
