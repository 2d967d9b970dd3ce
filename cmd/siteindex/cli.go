package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
	sihttp "github.com/fwojciec/siteindex/http"
	"github.com/fwojciec/siteindex/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	BaseURL string
	Version string

	// Session is the concrete crawler behind Crawler. Nil in tests that
	// only exercise command output.
	Session *crawl.Session
	Crawler siteindex.Crawler
	Asker   siteindex.Asker
	Metrics *prometheus.Metrics
}

// defaults feeds package defaults into the kong tags below.
func defaults() kong.Vars {
	return kong.Vars{
		"rps":           strconv.FormatFloat(crawl.DefaultRequestsPerSecond, 'g', -1, 64),
		"fetch_timeout": sihttp.DefaultFetchTimeout.String(),
		"deadline":      crawl.DefaultDeadline.String(),
		"page_cap":      strconv.Itoa(siteindex.DefaultPageCap),
		"depth_cap":     strconv.Itoa(siteindex.DefaultDepthCap),
		"top_k":         strconv.Itoa(siteindex.DefaultTopK),
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"YAML config file" env:"SITEINDEX_CONFIG"`

	BaseURL      string        `name:"base-url" env:"SITEINDEX_BASE_URL" help:"Origin to index (scheme://host[:port])"`
	Store        string        `enum:"fs,sqlite" default:"fs" env:"SITEINDEX_STORE" help:"Snapshot backend (fs or sqlite)"`
	SnapshotPath string        `name:"snapshot-path" type:"path" env:"SITEINDEX_SNAPSHOT_PATH" help:"Snapshot location (default ~/.siteindex/index.json, or index.db for sqlite)"`
	RPS          float64       `name:"rps" default:"${rps}" env:"SITEINDEX_RPS" help:"Requests per second against the origin (0 disables throttling)"`
	Timeout      time.Duration `default:"${fetch_timeout}" env:"SITEINDEX_FETCH_TIMEOUT" help:"Timeout for a single page fetch"`
	Retries      int           `default:"1" env:"SITEINDEX_RETRIES" help:"Retries for transient fetch failures (0 disables)"`
	Deadline     time.Duration `default:"${deadline}" env:"SITEINDEX_DEADLINE" help:"Wall-clock budget of one crawl"`
	PageCap      int           `name:"page-cap" default:"${page_cap}" env:"SITEINDEX_PAGE_CAP" help:"Upper bound on max-pages"`
	DepthCap     int           `name:"depth-cap" default:"${depth_cap}" env:"SITEINDEX_DEPTH_CAP" help:"Upper bound on max-depth (0 indexes only the base URL)"`
	LogLevel     string        `name:"log-level" enum:"debug,info,warn,error" default:"info" env:"SITEINDEX_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat    string        `name:"log-format" enum:"text,json" default:"text" env:"SITEINDEX_LOG_FORMAT" help:"Log format (text or json)"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl the origin and save a snapshot"`
	Ask      AskCmd      `cmd:"" help:"Answer a question from the saved index"`
	CrawlAsk CrawlAskCmd `cmd:"" name:"crawl-ask" help:"Crawl the origin, then answer a question"`
	Serve    ServeCmd    `cmd:"" help:"Serve the index over HTTP and/or MCP stdio"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	MaxPages int  `short:"n" default:"${page_cap}" help:"Maximum pages to index"`
	MaxDepth int  `short:"d" default:"${depth_cap}" help:"Maximum link depth from the start page"`
	JSON     bool `help:"Print the crawl result as JSON"`
	Quiet    bool `short:"q" help:"Suppress per-page progress"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to answer"`
	TopK     int    `short:"k" default:"${top_k}" help:"Number of snippets to show"`
}

// CrawlAskCmd is the "crawl-ask" subcommand.
type CrawlAskCmd struct {
	Question string `arg:"" help:"Question to answer after crawling"`
	MaxPages int    `short:"n" default:"${page_cap}" help:"Maximum pages to index"`
	MaxDepth int    `short:"d" default:"${depth_cap}" help:"Maximum link depth from the start page"`
	TopK     int    `short:"k" default:"${top_k}" help:"Number of snippets to show"`
	Quiet    bool   `short:"q" help:"Suppress per-page progress"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	HTTP     string `name:"http" env:"SITEINDEX_HTTP_ADDR" help:"Listen address for the HTTP API, e.g. :8080"`
	MCPStdio bool   `name:"mcp-stdio" help:"Serve MCP tools over stdin/stdout"`
}
