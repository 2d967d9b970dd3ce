package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteindex"
)

// Ensure LoggingSnapshotStore implements siteindex.SnapshotStore.
var _ siteindex.SnapshotStore = (*LoggingSnapshotStore)(nil)

// LoggingSnapshotStore wraps a SnapshotStore with logging.
type LoggingSnapshotStore struct {
	next   siteindex.SnapshotStore
	logger *slog.Logger
}

// NewLoggingSnapshotStore creates a new LoggingSnapshotStore.
func NewLoggingSnapshotStore(next siteindex.SnapshotStore, logger *slog.Logger) *LoggingSnapshotStore {
	return &LoggingSnapshotStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) Save(ctx context.Context, snap *siteindex.Snapshot) (err error) {
	defer func(begin time.Time) {
		pages := 0
		if snap != nil {
			pages = len(snap.Pages)
		}
		s.logger.Info("snapshot save",
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, snap)
}

// Load delegates to the wrapped store and logs the operation.
// A missing snapshot is logged at debug level.
func (s *LoggingSnapshotStore) Load(ctx context.Context) (snap *siteindex.Snapshot, err error) {
	defer func(begin time.Time) {
		pages := 0
		if snap != nil {
			pages = len(snap.Pages)
		}
		level := slog.LevelInfo
		if siteindex.ErrorCode(err) == siteindex.ENOTFOUND {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "snapshot load",
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}
