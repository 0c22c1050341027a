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


// Package badger implements storage.SnapshotStore on BadgerDB.
//
// Unlike the file backend, both snapshot blobs commit in a single
// transaction, so a crash can never leave a half-written pair on disk.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ShaileshDhama/finrag/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Keys for the snapshot pair
const (
	vectorIndexKey = "snapshot:index"
	corpusKey      = "snapshot:corpus"
)

// Store persists snapshots in a BadgerDB database.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.SnapshotStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a badger-backed snapshot store at the given directory,
// creating it if absent. Pass inMemory=true for an ephemeral store
// (used in tests).
func OpenStore(dir string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, err
				}
				info, err = os.Stat(dir)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		opts = badger.DefaultOptions(dir)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Save writes both snapshot blobs in one transaction.
func (s *Store) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	indexBlob := storage.MarshalVectorIndex(snapshot.Dimension, snapshot.Vectors)
	corpusBlob := storage.MarshalCorpus(snapshot.Texts)

	err := s.db.Update(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(vectorIndexKey), indexBlob); err != nil {
			return err
		}
		return tx.Set([]byte(corpusKey), corpusBlob)
	})
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		"documents", len(snapshot.Texts), "dimension", snapshot.Dimension)
	return nil
}

// Load reads and validates the snapshot pair.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	var indexBlob, corpusBlob []byte

	err := s.db.View(func(tx *badger.Txn) error {
		indexItem, indexErr := tx.Get([]byte(vectorIndexKey))
		corpusItem, corpusErr := tx.Get([]byte(corpusKey))

		indexMissing := errors.Is(indexErr, badger.ErrKeyNotFound)
		corpusMissing := errors.Is(corpusErr, badger.ErrKeyNotFound)

		switch {
		case indexMissing && corpusMissing:
			return storage.ErrSnapshotNotFound
		case indexMissing || corpusMissing:
			return fmt.Errorf("%w: snapshot pair incomplete", storage.ErrCorruptState)
		case indexErr != nil:
			return indexErr
		case corpusErr != nil:
			return corpusErr
		}

		var err error
		if indexBlob, err = indexItem.ValueCopy(nil); err != nil {
			return err
		}
		corpusBlob, err = corpusItem.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
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

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
