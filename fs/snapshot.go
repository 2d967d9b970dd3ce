// Package fs stores index snapshots as JSON files on the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/siteindex"
)

// DefaultDir is the directory, relative to the user's home, holding the
// default snapshot file.
const DefaultDir = ".siteindex"

// DefaultFile is the default snapshot file name.
const DefaultFile = "index.json"

// DefaultPath returns ~/.siteindex/index.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDir, DefaultFile), nil
}

// Ensure SnapshotStore implements siteindex.SnapshotStore at compile time.
var _ siteindex.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps one snapshot in a JSON file.
// Saves write to path.tmp and rename it over path, so readers see either
// the previous snapshot or the new one.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a SnapshotStore backed by the file at path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) tempPath() string {
	return s.path + ".tmp"
}

// Save replaces the snapshot file.
func (s *SnapshotStore) Save(ctx context.Context, snap *siteindex.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return siteindex.Errorf(siteindex.EINVALID, "snapshot required")
	}

	out := *snap
	if out.Pages == nil {
		out.Pages = []siteindex.Document{}
	}
	payload, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(s.tempPath(), payload, 0o644); err != nil {
		_ = os.Remove(s.tempPath())
		return err
	}
	if err := os.Rename(s.tempPath(), s.path); err != nil {
		_ = os.Remove(s.tempPath())
		return err
	}
	return nil
}

// Load reads the snapshot file.
func (s *SnapshotStore) Load(ctx context.Context) (*siteindex.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, siteindex.Errorf(siteindex.ENOTFOUND, "no snapshot at %s", s.path)
	}
	if err != nil {
		return nil, err
	}

	var snap siteindex.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, siteindex.Errorf(siteindex.EINVALID, "parse snapshot %s: %v", s.path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}
