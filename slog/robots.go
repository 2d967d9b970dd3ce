package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteindex"
)

// Ensure LoggingRobotsLoader implements siteindex.RobotsLoader.
var _ siteindex.RobotsLoader = (*LoggingRobotsLoader)(nil)

// LoggingRobotsLoader wraps a RobotsLoader with logging.
type LoggingRobotsLoader struct {
	next   siteindex.RobotsLoader
	logger *slog.Logger
}

// NewLoggingRobotsLoader creates a new LoggingRobotsLoader.
func NewLoggingRobotsLoader(next siteindex.RobotsLoader, logger *slog.Logger) *LoggingRobotsLoader {
	return &LoggingRobotsLoader{next: next, logger: logger}
}

// Load delegates to the wrapped loader and logs whether a policy was found.
func (l *LoggingRobotsLoader) Load(ctx context.Context, origin *siteindex.Origin) siteindex.RobotsPolicy {
	begin := time.Now()
	policy := l.next.Load(ctx, origin)
	l.logger.Info("robots policy",
		"url", origin.RobotsURL(),
		"allow_all", policy == siteindex.AllowAll,
		"duration", time.Since(begin),
	)
	return policy
}
