// Copyright 2025 Shailesh Dhama
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package file implements storage.SnapshotStore on the local filesystem
// as a pair of files: a binary vector-index blob and a corpus metadata
// blob. Each file is replaced atomically via a temp file and rename, but
// the pair itself is two renames; a crash exactly between them is
// detected at load as corrupt state.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ShaileshDhama/finrag/storage"
)

// Store persists snapshots to an index path and a metadata path.
type Store struct {
	indexPath    string
	metadataPath string
	logger       *slog.Logger
}

var _ storage.SnapshotStore = (*Store)(nil)

// NewStore creates a file-backed snapshot store. The paths' parent
// directories are created on the first save, not here, so a store can be
// constructed for a location that does not exist yet.
func NewStore(indexPath, metadataPath string) (*Store, error) {
	if indexPath == "" || metadataPath == "" {
		return nil, errors.New("index and metadata paths required")
	}
	return &Store{
		indexPath:    indexPath,
		metadataPath: metadataPath,
		logger:       slog.Default().With("component", "file-store"),
	}, nil
}

// Save writes the snapshot pair, creating parent directories if absent.
func (s *Store) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	for _, path := range []string{s.indexPath, s.metadataPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	indexBlob := storage.MarshalVectorIndex(snapshot.Dimension, snapshot.Vectors)
	corpusBlob := storage.MarshalCorpus(snapshot.Texts)

	if err := writeFileAtomic(s.indexPath, indexBlob); err != nil {
		return fmt.Errorf("writing vector index: %w", err)
	}
	if err := writeFileAtomic(s.metadataPath, corpusBlob); err != nil {
		return fmt.Errorf("writing corpus metadata: %w", err)
	}

	s.logger.Debug("snapshot saved",
		"documents", len(snapshot.Texts), "dimension", snapshot.Dimension)
	return nil
}

// Load reads and validates the snapshot pair.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	indexBlob, indexErr := os.ReadFile(s.indexPath)
	corpusBlob, corpusErr := os.ReadFile(s.metadataPath)

	indexMissing := errors.Is(indexErr, os.ErrNotExist)
	corpusMissing := errors.Is(corpusErr, os.ErrNotExist)

	switch {
	case indexMissing && corpusMissing:
		return nil, storage.ErrSnapshotNotFound
	case indexMissing || corpusMissing:
		return nil, fmt.Errorf("%w: snapshot pair incomplete (index missing: %v, metadata missing: %v)",
			storage.ErrCorruptState, indexMissing, corpusMissing)
	case indexErr != nil:
		return nil, fmt.Errorf("reading vector index: %w", indexErr)
	case corpusErr != nil:
		return nil, fmt.Errorf("reading corpus metadata: %w", corpusErr)
	}

	dim, vectors, err := storage.UnmarshalVectorIndex(indexBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptState, err)
	}
	texts, err := storage.UnmarshalCorpus(corpusBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptState, err)
	}

	snapshot := &storage.Snapshot{Dimension: dim, Vectors: vectors, Texts: texts}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Close is a no-op: the store holds no open handles between operations.
func (s *Store) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
