package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if !c.Quiet {
		watchProgress(deps)
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, siteindex.CrawlLimits{MaxPages: c.MaxPages, MaxDepth: c.MaxDepth})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	if !c.Quiet {
		printStats(deps)
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(deps.Stdout, result.Summary())
	for _, page := range result.Pages {
		fmt.Fprintf(deps.Stdout, "  %s\n", page.URL)
	}
	if result.Status == siteindex.CrawlOK && !result.PersistedToDisk {
		fmt.Fprintln(deps.Stderr, "warning: index is live for this process only; the snapshot could not be saved")
	}
	return nil
}

// watchProgress prints one line per page to stderr while the session crawls.
func watchProgress(deps *Dependencies) {
	if deps.Session == nil || deps.Session.Scheduler == nil {
		return
	}
	deps.Session.Scheduler.Progress = func(ev crawl.ProgressEvent) {
		fmt.Fprintf(deps.Stderr, "  %s\n", crawl.FormatProgress(ev))
	}
}

// printStats prints the scheduler statistics of the last crawl to stderr.
func printStats(deps *Dependencies) {
	if deps.Session == nil {
		return
	}
	fmt.Fprintf(deps.Stderr, "  %s\n", crawl.FormatStats(deps.Session.Stats()))
}
