package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
	"github.com/fwojciec/siteindex/fs"
	"github.com/fwojciec/siteindex/goquery"
	sihttp "github.com/fwojciec/siteindex/http"
	"github.com/fwojciec/siteindex/nethtml"
	"github.com/fwojciec/siteindex/prometheus"
	"github.com/fwojciec/siteindex/query"
	"github.com/fwojciec/siteindex/robotstxt"
	sislog "github.com/fwojciec/siteindex/slog"
	"github.com/fwojciec/siteindex/sqlite"
	"github.com/joho/godotenv"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; existing environment variables win.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config files consulted in order when --config is not given.
	ConfigPaths []string

	// SQLite database, opened only for --store=sqlite.
	DB *sqlite.DB

	fetcher siteindex.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{DefaultConfigPath},
	}
}

// Close releases the fetcher and database.
func (m *Main) Close() error {
	if m.fetcher != nil {
		_ = m.fetcher.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Version: Version,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteindex"),
		kong.Description("Crawl one site into a local keyword index and answer questions from it"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig, m.ConfigPaths...),
		defaults(),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteindex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}

	origin, err := siteindex.ParseOrigin(cli.BaseURL)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: set --base-url, SITEINDEX_BASE_URL or base-url in the config file")
		return err
	}

	snapshots, err := m.openSnapshots(cli)
	if err != nil {
		return err
	}
	defer m.Close()

	metrics := prometheus.NewMetrics()

	httpFetcher := sihttp.NewFetcher(sihttp.WithTimeout(cli.Timeout))
	retry := crawl.NewRetryFetcher(sislog.NewLoggingFetcher(httpFetcher, logger), crawl.Backoff(cli.Retries, crawl.DefaultRetryBase))
	retry.OnRetry = func(url string, attempt int, err error) {
		logger.Warn("retrying fetch", "url", url, "attempt", attempt, "err", err)
	}
	m.fetcher = prometheus.NewFetcher(retry, metrics)

	index := siteindex.NewIndexStore(sislog.NewLoggingSnapshotStore(snapshots, logger), origin.String())

	session := &crawl.Session{
		Origin: origin,
		Index:  index,
		Robots: sislog.NewLoggingRobotsLoader(robotstxt.NewLoader(httpFetcher.Client(), sihttp.UserAgent), logger),
		Scheduler: &crawl.Scheduler{
			Origin:      origin,
			Fetcher:     m.fetcher,
			Text:        nethtml.NewTextExtractor(),
			Links:       goquery.NewLinkExtractor(origin),
			RateLimiter: crawl.NewDomainLimiter(cli.RPS),
		},
		PageCap:  cli.PageCap,
		DepthCap: cli.DepthCap,
		Deadline: cli.Deadline,
	}

	deps.Logger = logger
	deps.BaseURL = origin.String()
	deps.Session = session
	deps.Metrics = metrics
	deps.Crawler = sislog.NewLoggingCrawler(prometheus.NewCrawler(session, metrics), logger)
	deps.Asker = sislog.NewLoggingAsker(query.NewEngine(index, origin.String()), logger)

	return kongCtx.Run(deps)
}

// openSnapshots returns the snapshot backend selected by --store.
func (m *Main) openSnapshots(cli *CLI) (siteindex.SnapshotStore, error) {
	path := cli.SnapshotPath
	if path == "" {
		var err error
		if path, err = defaultSnapshotPath(cli.Store); err != nil {
			return nil, fmt.Errorf("resolve snapshot path: %w", err)
		}
	}

	switch cli.Store {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		return sqlite.NewSnapshotStore(m.DB), nil
	default:
		return fs.NewSnapshotStore(path), nil
	}
}

func defaultSnapshotPath(store string) (string, error) {
	path, err := fs.DefaultPath()
	if err != nil {
		return "", err
	}
	if store == "sqlite" {
		path = filepath.Join(filepath.Dir(path), "index.db")
	}
	return path, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
