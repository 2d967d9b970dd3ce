package crawl_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
	"github.com/fwojciec/siteindex/goquery"
	"github.com/fwojciec/siteindex/mock"
	"github.com/fwojciec/siteindex/nethtml"
	"github.com/stretchr/testify/require"
)

const testBase = "https://example.com"

// site serves canned pages keyed by URL and records the fetch order.
type site struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched []string
}

func newSite(pages map[string]string) *site {
	return &site{pages: pages}
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			s.fetched = append(s.fetched, url)
			html, ok := s.pages[url]
			if !ok {
				return "", siteindex.Errorf(siteindex.ENOTFOUND, "HTTP 404 for %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (s *site) Fetched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

func page(text string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><p>")
	b.WriteString(text)
	b.WriteString("</p>")
	for _, l := range links {
		b.WriteString(`<a href="` + l + `">link</a>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func newScheduler(t *testing.T, f siteindex.Fetcher) *crawl.Scheduler {
	t.Helper()
	origin, err := siteindex.ParseOrigin(testBase)
	require.NoError(t, err)
	return &crawl.Scheduler{
		Origin:  origin,
		Fetcher: f,
		Text:    nethtml.NewTextExtractor(),
		Links:   goquery.NewLinkExtractor(origin),
	}
}

func urls(docs []siteindex.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.URL)
	}
	return out
}
