package siteindex

import (
	"context"
	"fmt"
)

// MaxSummaryPages is the number of documents listed in a CrawlResult.
const MaxSummaryPages = 10

// CrawlStatus describes how a crawl ended.
type CrawlStatus string

// Crawl statuses.
const (
	CrawlOK      CrawlStatus = "ok"
	CrawlEmpty   CrawlStatus = "empty"
	CrawlTimeout CrawlStatus = "timeout"
)

// PageSummary is a short view of an indexed document.
type PageSummary struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// CrawlResult is the structured outcome of a crawl.
type CrawlResult struct {
	Status          CrawlStatus   `json:"status"`
	PagesIndexed    int           `json:"pages_indexed"`
	MaxPages        int           `json:"max_pages"`
	MaxDepth        int           `json:"max_depth"`
	Pages           []PageSummary `json:"pages"`
	PersistedToDisk bool          `json:"persisted_to_disk"`
	UsedCachedIndex bool          `json:"used_cached_index"`
	Note            string        `json:"note"`
}

// Summary renders the one-line crawl report.
func (r *CrawlResult) Summary() string {
	if r.Note != "" {
		return r.Note
	}
	return fmt.Sprintf("Indexed %d page(s) (limit %d).", r.PagesIndexed, r.MaxPages)
}

// Summarize lists the first MaxSummaryPages documents with short excerpts.
func Summarize(docs []Document) []PageSummary {
	n := min(len(docs), MaxSummaryPages)
	pages := make([]PageSummary, 0, n)
	for _, doc := range docs[:n] {
		pages = append(pages, PageSummary{URL: doc.URL, Snippet: Excerpt(doc.Text, SnippetWidth)})
	}
	return pages
}

// Crawler runs a bounded crawl of the configured origin.
type Crawler interface {
	// Crawl clamps limits, crawls, and reports the outcome.
	// Recoverable conditions (timeouts, empty crawls, persistence failures)
	// are reported in the result; an error means the caller's context ended.
	Crawl(ctx context.Context, limits CrawlLimits) (*CrawlResult, error)
}
