package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteindex"
)

// Ensure LoggingAsker implements siteindex.Asker.
var _ siteindex.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with debug logging.
type LoggingAsker struct {
	next   siteindex.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next siteindex.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the question.
func (a *LoggingAsker) Ask(ctx context.Context, question string, topK int) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Debug("ask",
			"question", question,
			"top_k", topK,
			"bytes", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, question, topK)
}
