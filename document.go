package siteindex

import (
	"context"
	"time"
)

// SnapshotVersion is the snapshot format version this build reads and writes.
// Snapshots carrying any other version are ignored.
const SnapshotVersion = 1

// Document represents one crawled page reduced to plain text.
type Document struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// Snapshot is the durable form of an index.
type Snapshot struct {
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	BaseURL   string     `json:"base_url"`
	Pages     []Document `json:"pages"`
}

// Validate returns an error if the snapshot cannot be trusted by this build.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return Errorf(EINVALID, "snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	for i := range s.Pages {
		if err := s.Pages[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SnapshotStore persists index snapshots.
type SnapshotStore interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Load returns the stored snapshot.
	// Returns ENOTFOUND if no snapshot exists and EINVALID if the stored
	// snapshot cannot be parsed or has a different version.
	Load(ctx context.Context) (*Snapshot, error)
}
