// Package prometheus instruments siteindex services with
// github.com/prometheus/client_golang metrics.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/siteindex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	PagesFetched  prometheus.Counter
	BytesFetched  prometheus.Counter
	FetchFailures prometheus.Counter
	CrawlDuration prometheus.Histogram
	Crawls        *prometheus.CounterVec
	IndexedPages  prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siteindex_pages_fetched_total",
			Help: "Total number of pages successfully fetched",
		}),
		BytesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siteindex_bytes_fetched_total",
			Help: "Total bytes downloaded",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siteindex_fetch_failures_total",
			Help: "Total number of failed page fetches",
		}),
		CrawlDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteindex_crawl_duration_seconds",
			Help:    "Wall-clock duration of crawls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}),
		Crawls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteindex_crawls_total",
			Help: "Total number of crawls by result status",
		}, []string{"status"}),
		IndexedPages: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "siteindex_indexed_pages",
			Help: "Number of documents served after the last crawl",
		}),
	}
	m.Registry.MustRegister(
		m.PagesFetched,
		m.BytesFetched,
		m.FetchFailures,
		m.CrawlDuration,
		m.Crawls,
		m.IndexedPages,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Ensure Fetcher implements siteindex.Fetcher at compile time.
var _ siteindex.Fetcher = (*Fetcher)(nil)

// Fetcher counts fetched pages, bytes and failures.
type Fetcher struct {
	next    siteindex.Fetcher
	metrics *Metrics
}

// NewFetcher wraps next with fetch metrics.
func NewFetcher(next siteindex.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: m}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.metrics.FetchFailures.Inc()
		return "", err
	}
	f.metrics.PagesFetched.Inc()
	f.metrics.BytesFetched.Add(float64(len(html)))
	return html, nil
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}

// Ensure Crawler implements siteindex.Crawler at compile time.
var _ siteindex.Crawler = (*Crawler)(nil)

// Crawler records crawl durations and result statuses.
type Crawler struct {
	next    siteindex.Crawler
	metrics *Metrics
}

// NewCrawler wraps next with crawl metrics.
func NewCrawler(next siteindex.Crawler, m *Metrics) *Crawler {
	return &Crawler{next: next, metrics: m}
}

// Crawl delegates to the wrapped crawler and records the outcome.
// Cancelled crawls are counted with status "error".
func (c *Crawler) Crawl(ctx context.Context, limits siteindex.CrawlLimits) (*siteindex.CrawlResult, error) {
	begin := time.Now()
	result, err := c.next.Crawl(ctx, limits)
	c.metrics.CrawlDuration.Observe(time.Since(begin).Seconds())
	if err != nil {
		c.metrics.Crawls.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.Crawls.WithLabelValues(string(result.Status)).Inc()
	c.metrics.IndexedPages.Set(float64(result.PagesIndexed))
	return result, nil
}
