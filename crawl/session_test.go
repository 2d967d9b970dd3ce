package crawl_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
	"github.com/fwojciec/siteindex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is a SnapshotStore holding at most one snapshot.
func memoryStore() (*mock.SnapshotStore, func() *siteindex.Snapshot) {
	var saved *siteindex.Snapshot
	store := &mock.SnapshotStore{
		SaveFn: func(_ context.Context, snap *siteindex.Snapshot) error {
			saved = snap
			return nil
		},
		LoadFn: func(_ context.Context) (*siteindex.Snapshot, error) {
			if saved == nil {
				return nil, siteindex.Errorf(siteindex.ENOTFOUND, "no snapshot")
			}
			return saved, nil
		},
	}
	return store, func() *siteindex.Snapshot { return saved }
}

func newSession(t *testing.T, f siteindex.Fetcher, store siteindex.SnapshotStore) *crawl.Session {
	t.Helper()
	sched := newScheduler(t, f)
	return &crawl.Session{
		Origin:    sched.Origin,
		Index:     siteindex.NewIndexStore(store, testBase),
		Scheduler: sched,
		DepthCap:  siteindex.DefaultDepthCap,
	}
}

func TestSession_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("indexes, persists and summarizes a successful crawl", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			testBase:        page("root text", "/a"),
			testBase + "/a": page("page a"),
		})
		store, saved := memoryStore()
		sess := newSession(t, s.fetcher(), store)

		result, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 5, MaxDepth: 1})

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlOK, result.Status)
		assert.Equal(t, 2, result.PagesIndexed)
		assert.Equal(t, 5, result.MaxPages)
		assert.Equal(t, 1, result.MaxDepth)
		assert.True(t, result.PersistedToDisk)
		assert.False(t, result.UsedCachedIndex)
		assert.Equal(t, []siteindex.PageSummary{
			{URL: testBase, Snippet: "root text link"},
			{URL: testBase + "/a", Snippet: "page a"},
		}, result.Pages)
		assert.Equal(t, "Indexed 2 page(s) from https://example.com (limit 5).", result.Note)
		require.NotNil(t, saved())
		assert.Len(t, saved().Pages, 2)
		assert.Equal(t, 2, sess.Index.Len())
	})

	t.Run("clamps limits to the caps", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{testBase: page("root")})
		store, _ := memoryStore()
		sess := newSession(t, s.fetcher(), store)
		sess.PageCap = 3

		result, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 500, MaxDepth: -4})

		require.NoError(t, err)
		assert.Equal(t, 3, result.MaxPages)
		assert.Equal(t, 0, result.MaxDepth)
	})

	t.Run("a zero depth cap restricts the crawl to the start URL", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			testBase:        page("root", "/a"),
			testBase + "/a": page("a"),
		})
		store, _ := memoryStore()
		sess := newSession(t, s.fetcher(), store)
		sess.DepthCap = 0

		result, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 10, MaxDepth: 2})

		require.NoError(t, err)
		assert.Equal(t, 0, result.MaxDepth)
		assert.Equal(t, []string{testBase}, urls(sess.Index.Documents()))
		assert.Equal(t, []string{testBase}, s.Fetched())
	})

	t.Run("a negative depth cap selects the default", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{testBase: page("root")})
		store, _ := memoryStore()
		sess := newSession(t, s.fetcher(), store)
		sess.DepthCap = -1

		result, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 10, MaxDepth: 10})

		require.NoError(t, err)
		assert.Equal(t, siteindex.DefaultDepthCap, result.MaxDepth)
	})

	t.Run("records the scheduler statistics of the last run", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			testBase:        page("root", "/a", "/missing"),
			testBase + "/a": page("a"),
		})
		store, _ := memoryStore()
		sess := newSession(t, s.fetcher(), store)

		_, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 10, MaxDepth: 1})

		require.NoError(t, err)
		assert.Equal(t, crawl.Stats{Fetched: 2, Failed: 1, Discovered: 2}, sess.Stats())
	})

	t.Run("crawls only the base URL with one page and depth zero", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			testBase:        page("root", "/a", "/b"),
			testBase + "/a": page("a"),
		})
		store, _ := memoryStore()

		result, err := newSession(t, s.fetcher(), store).Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 1, MaxDepth: 0})

		require.NoError(t, err)
		assert.Equal(t, 1, result.PagesIndexed)
		require.Len(t, result.Pages, 1)
		assert.Equal(t, testBase, result.Pages[0].URL)
	})

	t.Run("never indexes robots-disallowed pages", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			testBase:              page("root", "/private", "/docs"),
			testBase + "/private": page("secret"),
			testBase + "/docs":    page("docs"),
		})
		store, _ := memoryStore()
		sess := newSession(t, s.fetcher(), store)
		sess.Robots = &mock.RobotsLoader{LoadFn: func(_ context.Context, _ *siteindex.Origin) siteindex.RobotsPolicy {
			return &mock.RobotsPolicy{AllowedFn: func(rawURL string) bool {
				return !strings.HasPrefix(rawURL, testBase+"/private")
			}}
		}}

		_, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 10, MaxDepth: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{testBase, testBase + "/docs"}, urls(sess.Index.Documents()))
	})

	t.Run("falls back to the cached index on timeout", func(t *testing.T) {
		t.Parallel()

		slow := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		store, saved := memoryStore()
		sess := newSession(t, slow, store)
		sess.Deadline = 20 * time.Millisecond
		cache := []siteindex.Document{
			{URL: testBase, Text: "old root"},
			{URL: testBase + "/old", Text: "old page"},
		}
		sess.Index.Replace(cache)

		result, err := sess.Crawl(context.Background(), siteindex.DefaultLimits())

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlTimeout, result.Status)
		assert.Equal(t, len(cache), result.PagesIndexed)
		assert.False(t, result.PersistedToDisk)
		assert.True(t, result.UsedCachedIndex)
		assert.Equal(t, cache, sess.Index.Documents())
		assert.Nil(t, saved())
	})

	t.Run("keeps a crawl whose last fetch ends after the deadline", func(t *testing.T) {
		t.Parallel()

		late := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				time.Sleep(30 * time.Millisecond)
				return page("fresh"), nil
			},
		}
		store, saved := memoryStore()
		sess := newSession(t, late, store)
		sess.Deadline = 20 * time.Millisecond
		sess.Index.Replace([]siteindex.Document{{URL: testBase, Text: "stale"}})

		result, err := sess.Crawl(context.Background(), siteindex.CrawlLimits{MaxPages: 1, MaxDepth: 0})

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlOK, result.Status)
		assert.False(t, result.UsedCachedIndex)
		assert.True(t, result.PersistedToDisk)
		assert.Equal(t, []siteindex.Document{{URL: testBase, Text: "fresh"}}, sess.Index.Documents())
		require.NotNil(t, saved())
		assert.Equal(t, "fresh", saved().Pages[0].Text)
	})

	t.Run("loads the cache from the snapshot when the live index is empty", func(t *testing.T) {
		t.Parallel()

		slow := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		store := &mock.SnapshotStore{
			LoadFn: func(_ context.Context) (*siteindex.Snapshot, error) {
				return &siteindex.Snapshot{
					Version: siteindex.SnapshotVersion,
					Pages:   []siteindex.Document{{URL: testBase, Text: "from disk"}},
				}, nil
			},
		}
		sess := newSession(t, slow, store)
		sess.Deadline = 20 * time.Millisecond

		result, err := sess.Crawl(context.Background(), siteindex.DefaultLimits())

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlTimeout, result.Status)
		assert.Equal(t, 1, result.PagesIndexed)
		assert.True(t, result.UsedCachedIndex)
	})

	t.Run("serves the partial index on timeout without a cache", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == testBase {
					return page("root", "/slow"), nil
				}
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		store, _ := memoryStore()
		sess := newSession(t, fetcher, store)
		sess.Deadline = 20 * time.Millisecond

		result, err := sess.Crawl(context.Background(), siteindex.DefaultLimits())

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlTimeout, result.Status)
		assert.Equal(t, 1, result.PagesIndexed)
		assert.False(t, result.UsedCachedIndex)
		assert.False(t, result.PersistedToDisk)
	})

	t.Run("keeps the previous index when nothing is found", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{})
		store, saved := memoryStore()
		sess := newSession(t, s.fetcher(), store)
		cache := []siteindex.Document{{URL: testBase, Text: "cached"}}
		sess.Index.Replace(cache)

		result, err := sess.Crawl(context.Background(), siteindex.DefaultLimits())

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlEmpty, result.Status)
		assert.Equal(t, 1, result.PagesIndexed)
		assert.True(t, result.UsedCachedIndex)
		assert.False(t, result.PersistedToDisk)
		assert.Equal(t, cache, sess.Index.Documents())
		assert.Nil(t, saved())
	})

	t.Run("reports a failed save without failing the crawl", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{testBase: page("root")})
		store := &mock.SnapshotStore{
			SaveFn: func(context.Context, *siteindex.Snapshot) error { return errors.New("disk full") },
			LoadFn: func(context.Context) (*siteindex.Snapshot, error) {
				return nil, siteindex.Errorf(siteindex.ENOTFOUND, "no snapshot")
			},
		}

		result, err := newSession(t, s.fetcher(), store).Crawl(context.Background(), siteindex.DefaultLimits())

		require.NoError(t, err)
		assert.Equal(t, siteindex.CrawlOK, result.Status)
		assert.False(t, result.PersistedToDisk)
	})

	t.Run("replaces the previous index on success", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{testBase: page("fresh")})
		store, _ := memoryStore()
		sess := newSession(t, s.fetcher(), store)
		sess.Index.Replace([]siteindex.Document{{URL: testBase + "/stale", Text: "stale"}})

		result, err := sess.Crawl(context.Background(), siteindex.DefaultLimits())

		require.NoError(t, err)
		assert.False(t, result.UsedCachedIndex)
		assert.Equal(t, []siteindex.Document{{URL: testBase, Text: "fresh"}}, sess.Index.Documents())
	})

	t.Run("returns an error when the caller cancels", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{testBase: page("root")})
		store, _ := memoryStore()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newSession(t, s.fetcher(), store).Crawl(ctx, siteindex.DefaultLimits())

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSession_Restore(t *testing.T) {
	t.Parallel()

	t.Run("seeds an empty index from the snapshot", func(t *testing.T) {
		t.Parallel()

		store, _ := memoryStore()
		require.NoError(t, store.Save(context.Background(), &siteindex.Snapshot{
			Version: siteindex.SnapshotVersion,
			Pages:   []siteindex.Document{{URL: testBase, Text: "saved"}},
		}))
		sess := newSession(t, newSite(nil).fetcher(), store)

		assert.Equal(t, 1, sess.Restore(context.Background()))
		assert.Equal(t, "saved", sess.Index.Documents()[0].Text)
	})

	t.Run("leaves a populated index alone", func(t *testing.T) {
		t.Parallel()

		store, _ := memoryStore()
		sess := newSession(t, newSite(nil).fetcher(), store)
		sess.Index.Replace([]siteindex.Document{{URL: testBase, Text: "live"}})

		assert.Equal(t, 1, sess.Restore(context.Background()))
		assert.Equal(t, "live", sess.Index.Documents()[0].Text)
	})
}

func TestCrawlThenAsk(t *testing.T) {
	t.Parallel()

	t.Run("joins the crawl summary and the answer", func(t *testing.T) {
		t.Parallel()

		crawler := &mock.Crawler{CrawlFn: func(_ context.Context, limits siteindex.CrawlLimits) (*siteindex.CrawlResult, error) {
			return &siteindex.CrawlResult{Note: "Indexed 1 page(s) from https://example.com (limit 40)."}, nil
		}}
		asker := &mock.Asker{AskFn: func(_ context.Context, question string, topK int) (string, error) {
			return "answer to " + question, nil
		}}

		out, err := crawl.CrawlThenAsk(context.Background(), crawler, asker, "what", siteindex.DefaultLimits(), 3)

		require.NoError(t, err)
		assert.Equal(t, "Indexed 1 page(s) from https://example.com (limit 40).\n\nanswer to what", out)
	})

	t.Run("returns the crawl error", func(t *testing.T) {
		t.Parallel()

		crawler := &mock.Crawler{CrawlFn: func(context.Context, siteindex.CrawlLimits) (*siteindex.CrawlResult, error) {
			return nil, context.Canceled
		}}

		_, err := crawl.CrawlThenAsk(context.Background(), crawler, &mock.Asker{}, "q", siteindex.DefaultLimits(), 3)

		require.ErrorIs(t, err, context.Canceled)
	})
}
