package storage

import "context"

// SnapshotStore persists and restores the engine state as one unit.
// Implementations must keep the vector blob and corpus blob consistent
// with each other: a load must never observe one half of a save.
type SnapshotStore interface {
	// Save durably writes the snapshot, replacing any previous one.
	// Parent directories or buckets are created on demand.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load reads the most recently saved snapshot.
	// Returns ErrSnapshotNotFound if nothing has been saved yet, and
	// ErrCorruptState if the persisted pair is incomplete, undecodable,
	// or internally inconsistent.
	Load(ctx context.Context) (*Snapshot, error)

	// Close releases resources held by the store.
	Close() error
}
