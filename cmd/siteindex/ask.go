package main

import (
	"fmt"

	"github.com/fwojciec/siteindex"
	"github.com/fwojciec/siteindex/crawl"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	if deps.Session != nil {
		deps.Session.Restore(deps.Ctx)
	}

	answer, err := deps.Asker.Ask(deps.Ctx, c.Question, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteindex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}

// Run executes the crawl-ask command.
func (c *CrawlAskCmd) Run(deps *Dependencies) error {
	if !c.Quiet {
		watchProgress(deps)
	}

	limits := siteindex.CrawlLimits{MaxPages: c.MaxPages, MaxDepth: c.MaxDepth}
	out, err := crawl.CrawlThenAsk(deps.Ctx, deps.Crawler, deps.Asker, c.Question, limits, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteindex.ErrorMessage(err))
		return err
	}
	if !c.Quiet {
		printStats(deps)
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}
