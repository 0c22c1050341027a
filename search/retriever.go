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


package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ShaileshDhama/finrag/ai"
	"github.com/ShaileshDhama/finrag/core"
	"github.com/ShaileshDhama/finrag/corpus"
	"github.com/ShaileshDhama/finrag/index"
	"github.com/ShaileshDhama/finrag/ingestion"
	"github.com/ShaileshDhama/finrag/storage"
)

// State is the retriever lifecycle state.
type State int

const (
	// StateUninitialized means construction has not completed.
	StateUninitialized State = iota
	// StateLoading means a persisted snapshot is being restored.
	StateLoading
	// StateReady means the retriever accepts searches and ingestions.
	StateReady
	// StateIndexing means an ingestion is in flight.
	StateIndexing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateIndexing:
		return "indexing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Retriever combines exact nearest-neighbor search over embeddings with
// BM25 lexical search over the same corpus. The document store, dense
// index and sparse index always describe the same set of documents;
// a reader-writer lock guards every transition between states.
type Retriever struct {
	mu    sync.RWMutex
	state State

	store  *corpus.Store
	dense  *index.DenseIndex
	sparse *index.SparseIndex

	batch     *ingestion.BatchEmbedder
	batchOpts []ingestion.Option
	embedder  ai.Embedder
	snapshots storage.SnapshotStore
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithBatchOptions forwards options to the ingestion batch embedder.
func WithBatchOptions(opts ...ingestion.Option) Option {
	return func(r *Retriever) error {
		r.batchOpts = append(r.batchOpts, opts...)
		return nil
	}
}

// NewRetriever creates a retriever over the given embedder and snapshot
// store, restoring any previously persisted corpus. A missing snapshot
// yields an empty, ready retriever; a corrupt or dimensionally
// incompatible one fails construction with ErrInitialization.
func NewRetriever(
	ctx context.Context,
	embedder ai.Embedder,
	snapshots storage.SnapshotStore,
	dimension int,
	opts ...Option,
) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if snapshots == nil {
		return nil, ErrSnapshotStoreRequired
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, index.ErrInvalidDimension)
	}

	r := &Retriever{
		state:     StateUninitialized,
		embedder:  embedder,
		snapshots: snapshots,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	batch, err := ingestion.NewBatchEmbedder(embedder, r.batchOpts...)
	if err != nil {
		return nil, err
	}
	r.batch = batch

	r.state = StateLoading
	if err := r.restore(ctx, dimension); err != nil {
		r.batch.Release()
		return nil, err
	}
	r.state = StateReady
	return r, nil
}

// restore loads the persisted snapshot, or starts empty when none exists.
func (r *Retriever) restore(ctx context.Context, dimension int) error {
	snapshot, err := r.snapshots.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound):
		r.store = corpus.NewStore()
		dense, denseErr := index.NewDenseIndex(dimension)
		if denseErr != nil {
			return fmt.Errorf("%w: %w", ErrInitialization, denseErr)
		}
		r.dense = dense
		r.sparse = index.NewSparseIndex()
		r.logger.Info("no snapshot found, starting with empty corpus", "dimension", dimension)
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	if snapshot.Dimension != dimension {
		return fmt.Errorf("%w: snapshot dimension %d does not match configured dimension %d",
			ErrInitialization, snapshot.Dimension, dimension)
	}

	dense, err := index.NewDenseIndexFromVectors(snapshot.Dimension, snapshot.Vectors)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	r.store = corpus.NewStoreFromTexts(snapshot.Texts)
	r.dense = dense
	r.sparse = index.NewSparseIndex()
	r.sparse.Rebuild(snapshot.Texts)

	r.logger.Info("snapshot restored",
		"documents", r.store.Len(), "dimension", snapshot.Dimension)
	return nil
}

// Ingest embeds the given texts and appends them to the corpus, the
// dense index and the sparse index, then persists the new snapshot
// before returning. Embedding happens outside the write lock so
// searches keep running until the indexes actually change. A
// persistence failure is returned to the caller; the in-memory indexes
// keep the new documents.
func (r *Retriever) Ingest(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	r.mu.Lock()
	if r.state != StateReady {
		r.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrNotReady, r.state)
	}
	r.state = StateIndexing
	r.mu.Unlock()

	vectors, err := r.batch.EmbedAll(ctx, texts)
	if err != nil {
		r.setState(StateReady)
		return fmt.Errorf("embedding documents: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.state = StateReady }()

	if err := r.dense.Add(vectors); err != nil {
		return err
	}
	for _, text := range texts {
		r.store.Append(text)
	}
	r.sparse.Rebuild(r.store.Texts())

	snapshot := &storage.Snapshot{
		Dimension: r.dense.Dimension(),
		Vectors:   r.dense.Vectors(),
		Texts:     r.store.Texts(),
	}
	if err := r.snapshots.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	r.logger.Info("documents ingested", "added", len(texts), "total", r.store.Len())
	return nil
}

// HybridSearch combines dense and sparse rankings for the query.
// Returns up to k hits scored in [0,1], ranked by the fused score.
func (r *Retriever) HybridSearch(ctx context.Context, query string, k int, alpha float64) ([]core.Hit, error) {
	return r.HybridSearchWithMonitor(ctx, query, k, alpha, nil)
}

// HybridSearchWithMonitor is HybridSearch with stage callbacks.
//
// Both sides search with widened candidate lists (2k) before fusion so
// documents ranked just below k on one side can still surface in the
// combined ranking. A failure on either side degrades that side to an
// empty candidate list; a fusion failure falls back to the dense-only
// ranking, whose scores are raw distances rather than fused scores.
func (r *Retriever) HybridSearchWithMonitor(ctx context.Context, query string, k int, alpha float64, monitor SearchMonitor) ([]core.Hit, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := core.ValidateK(k); err != nil {
		return nil, err
	}
	if err := core.ValidateAlpha(alpha); err != nil {
		return nil, err
	}

	monitor.Start(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateReady {
		return nil, fmt.Errorf("%w: state is %s", ErrNotReady, r.state)
	}
	if r.store.Len() == 0 {
		monitor.Finish([]core.Hit{})
		return []core.Hit{}, nil
	}

	dense := r.denseCandidates(ctx, query, k*2)
	monitor.AfterDenseSearch(dense)

	sparse := r.sparseCandidates(query, k*2)
	monitor.AfterSparseSearch(sparse)

	fused, err := Fuse(dense, sparse, alpha, k)
	if err != nil {
		r.logger.Warn("fusion failed, falling back to dense ranking", "err", err)
		monitor.DenseFallback(err)
		if len(dense) > k {
			dense = dense[:k]
		}
		fused = dense
	} else {
		monitor.AfterFusion(fused)
	}

	hits, err := r.resolve(fused)
	if err != nil {
		return nil, err
	}
	monitor.Finish(hits)
	return hits, nil
}

// DenseSearch runs the exact nearest-neighbor side alone. Scores are
// squared L2 distances, ascending. Intended for diagnostics.
func (r *Retriever) DenseSearch(ctx context.Context, query string, k int) ([]core.Match, error) {
	if err := core.ValidateK(k); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateReady {
		return nil, fmt.Errorf("%w: state is %s", ErrNotReady, r.state)
	}

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return r.dense.Search(embedding, k)
}

// SparseSearch runs the BM25 side alone. Scores are raw BM25 values,
// descending. Intended for diagnostics.
func (r *Retriever) SparseSearch(query string, k int) ([]core.Match, error) {
	if err := core.ValidateK(k); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateReady {
		return nil, fmt.Errorf("%w: state is %s", ErrNotReady, r.state)
	}
	return r.sparse.Search(index.Tokenize(query), k)
}

// Get returns the document text for an id.
func (r *Retriever) Get(id int) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Get(id)
}

// Len reports the number of documents in the corpus.
func (r *Retriever) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Len()
}

// State reports the current lifecycle state.
func (r *Retriever) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Close releases the embedding worker pool. The retriever must not be
// used after Close. The snapshot store is owned by the caller and is
// not closed here.
func (r *Retriever) Close() error {
	r.batch.Release()
	return nil
}

// denseCandidates embeds the query and searches the dense index,
// degrading to an empty candidate list on failure.
func (r *Retriever) denseCandidates(ctx context.Context, query string, k int) []core.Match {
	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query, dropping dense candidates", "err", err)
		return []core.Match{}
	}
	matches, err := r.dense.Search(embedding, k)
	if err != nil {
		r.logger.Error("dense search failed, dropping dense candidates", "err", err)
		return []core.Match{}
	}
	return matches
}

// sparseCandidates searches the BM25 index, degrading to an empty
// candidate list on failure.
func (r *Retriever) sparseCandidates(query string, k int) []core.Match {
	matches, err := r.sparse.Search(index.Tokenize(query), k)
	if err != nil {
		r.logger.Error("sparse search failed, dropping sparse candidates", "err", err)
		return []core.Match{}
	}
	return matches
}

// resolve maps ranked matches back to document texts.
func (r *Retriever) resolve(matches []core.Match) ([]core.Hit, error) {
	hits := make([]core.Hit, 0, len(matches))
	for _, m := range matches {
		text, err := r.store.Get(m.Id)
		if err != nil {
			return nil, err
		}
		hits = append(hits, core.Hit{Text: text, Score: m.Score})
	}
	return hits, nil
}

func (r *Retriever) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}
