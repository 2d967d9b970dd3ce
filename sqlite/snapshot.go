package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/siteindex"
	"github.com/google/uuid"
)

// DefaultKeep is the number of snapshots retained after each save.
const DefaultKeep = 5

// Compile-time interface verification.
var _ siteindex.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore implements siteindex.SnapshotStore using SQLite.
// Every save inserts a new snapshot; Load returns the newest one.
type SnapshotStore struct {
	db   *DB
	keep int
}

// NewSnapshotStore creates a new SnapshotStore that keeps the
// DefaultKeep most recent snapshots.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db, keep: DefaultKeep}
}

// Save inserts snap as the newest snapshot and prunes old ones.
func (s *SnapshotStore) Save(ctx context.Context, snap *siteindex.Snapshot) error {
	if snap == nil {
		return siteindex.Errorf(siteindex.EINVALID, "snapshot required")
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, version, base_url, created_at)
		VALUES (?, ?, ?, ?)
	`, id, snap.Version, snap.BaseURL, snap.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	for i, doc := range snap.Pages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_pages (snapshot_id, position, url, text)
			VALUES (?, ?, ?, ?)
		`, id, i, doc.URL, doc.Text); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE id NOT IN (SELECT id FROM snapshots ORDER BY rowid DESC LIMIT ?)
	`, s.keep); err != nil {
		return err
	}

	return tx.Commit()
}

// Load returns the most recently saved snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (*siteindex.Snapshot, error) {
	var (
		id        string
		createdAt string
		snap      siteindex.Snapshot
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, version, base_url, created_at
		FROM snapshots
		ORDER BY rowid DESC
		LIMIT 1
	`).Scan(&id, &snap.Version, &snap.BaseURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, siteindex.Errorf(siteindex.ENOTFOUND, "no snapshot stored")
	}
	if err != nil {
		return nil, err
	}

	snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, siteindex.Errorf(siteindex.EINVALID, "failed to parse created_at: %v", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, text
		FROM snapshot_pages
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap.Pages = []siteindex.Document{}
	for rows.Next() {
		var doc siteindex.Document
		if err := rows.Scan(&doc.URL, &doc.Text); err != nil {
			return nil, err
		}
		snap.Pages = append(snap.Pages, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot pages: %w", err)
	}

	return &snap, nil
}
