package siteindex

import (
	"context"
	"slices"
	"sync"
	"time"
)

// IndexStore owns an ordered in-memory document list and its durable snapshot.
// It is safe for concurrent use by multiple goroutines.
type IndexStore struct {
	mu   sync.RWMutex
	docs []Document

	snapshots SnapshotStore
	baseURL   string

	// Now returns the snapshot creation time. Defaults to time.Now.
	Now func() time.Time
}

// NewIndexStore creates an empty IndexStore persisting through snapshots.
func NewIndexStore(snapshots SnapshotStore, baseURL string) *IndexStore {
	return &IndexStore{
		snapshots: snapshots,
		baseURL:   baseURL,
		Now:       time.Now,
	}
}

// Staging returns an empty IndexStore sharing this store's persistence.
// Crawls build into a staging store and publish it with Replace, so readers
// of the live store never observe a half-built index.
func (s *IndexStore) Staging() *IndexStore {
	return &IndexStore{
		snapshots: s.snapshots,
		baseURL:   s.baseURL,
		Now:       s.Now,
	}
}

// Append adds a document to the end of the index.
// Callers guarantee URL uniqueness.
func (s *IndexStore) Append(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

// Documents returns a copy of the index in insertion order.
func (s *IndexStore) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs)
}

// Len returns the number of documents in the index.
func (s *IndexStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Replace swaps the whole index for docs.
func (s *IndexStore) Replace(docs []Document) {
	docs = slices.Clone(docs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
}

// Save writes the current index as a snapshot.
// An empty index is never written, so it cannot overwrite a good snapshot.
func (s *IndexStore) Save(ctx context.Context) error {
	docs := s.Documents()
	if len(docs) == 0 {
		return Errorf(EINVALID, "refusing to save an empty index")
	}
	if s.snapshots == nil {
		return Errorf(EINVALID, "no snapshot store configured")
	}

	now := s.Now
	if now == nil {
		now = time.Now
	}
	return s.snapshots.Save(ctx, &Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: now().UTC(),
		BaseURL:   s.baseURL,
		Pages:     docs,
	})
}

// Load reads the stored snapshot and returns its documents.
// A missing, unreadable, corrupt or version-mismatched snapshot yields an
// empty result. Load does not modify the in-memory index.
func (s *IndexStore) Load(ctx context.Context) []Document {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil || snap == nil {
		return nil
	}
	if err := snap.Validate(); err != nil {
		return nil
	}
	return snap.Pages
}
