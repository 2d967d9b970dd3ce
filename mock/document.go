package mock

import (
	"context"

	"github.com/fwojciec/siteindex"
)

var _ siteindex.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of siteindex.SnapshotStore.
type SnapshotStore struct {
	SaveFn func(ctx context.Context, snap *siteindex.Snapshot) error
	LoadFn func(ctx context.Context) (*siteindex.Snapshot, error)
}

func (s *SnapshotStore) Save(ctx context.Context, snap *siteindex.Snapshot) error {
	return s.SaveFn(ctx, snap)
}

func (s *SnapshotStore) Load(ctx context.Context) (*siteindex.Snapshot, error) {
	return s.LoadFn(ctx)
}
