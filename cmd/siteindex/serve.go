package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/siteindex"
	sichi "github.com/fwojciec/siteindex/chi"
	simcp "github.com/fwojciec/siteindex/mcp"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// Run executes the serve command. It returns nil when the parent context
// ends or, without --http, when the MCP client disconnects. The first
// server error stops both servers.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if c.HTTP == "" && !c.MCPStdio {
		return siteindex.Errorf(siteindex.EINVALID, "nothing to serve: pass --http and/or --mcp-stdio")
	}

	if deps.Session != nil {
		if n := deps.Session.Restore(deps.Ctx); n > 0 {
			deps.Logger.Info("restored snapshot", "pages", n, "base_url", deps.BaseURL)
		}
	}

	g, ctx := errgroup.WithContext(deps.Ctx)

	if c.HTTP != "" {
		var metrics http.Handler
		if deps.Metrics != nil {
			metrics = deps.Metrics.Handler()
		}
		srv := &http.Server{
			Addr:              c.HTTP,
			Handler:           sichi.NewHandler(deps.Crawler, deps.Asker, metrics, deps.Logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			deps.Logger.Info("http listening", "addr", c.HTTP)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if c.MCPStdio {
		srv := simcp.NewServer(deps.Crawler, deps.Asker, deps.BaseURL, deps.Version)
		g.Go(func() error {
			return srv.ServeStdio(ctx)
		})
	}

	if err := g.Wait(); err != nil && deps.Ctx.Err() == nil {
		return err
	}
	return nil
}
