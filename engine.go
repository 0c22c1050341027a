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


package finrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShaileshDhama/finrag/ai"
	"github.com/ShaileshDhama/finrag/ai/openai"
	"github.com/ShaileshDhama/finrag/cache"
	"github.com/ShaileshDhama/finrag/config"
	"github.com/ShaileshDhama/finrag/core"
	"github.com/ShaileshDhama/finrag/ingestion"
	"github.com/ShaileshDhama/finrag/search"
	"github.com/ShaileshDhama/finrag/storage"
	"github.com/ShaileshDhama/finrag/storage/badger"
	"github.com/ShaileshDhama/finrag/storage/file"
)

// Engine wires the embedding client, snapshot store, retriever and
// query cache into one retrieval service.
type Engine struct {
	cfg       *config.Config
	snapshots storage.SnapshotStore
	retriever *search.Retriever
	queries   *cache.QueryCache
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// WithEmbedder substitutes the embedding client, bypassing the
// configured OpenAI-compatible endpoint. Used by tests and callers that
// bring their own embedder.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEngine builds an engine from configuration, restoring any
// persisted corpus before returning.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	embedder := options.embedder
	if embedder == nil {
		aiCfg := ai.DefaultConfig(
			ai.WithEmbeddingHost(cfg.Embedding.Host),
			ai.WithEmbeddingModel(cfg.Embedding.Model),
			ai.WithEmbeddingDimensions(cfg.Embedding.Dimensions),
		)
		var err error
		embedder, err = openai.NewEmbedder(aiCfg)
		if err != nil {
			return nil, err
		}
	}

	snapshots, err := openSnapshotStore(cfg)
	if err != nil {
		return nil, err
	}

	batchOpts := []ingestion.Option{ingestion.WithLogger(options.logger)}
	if cfg.Embedding.BatchSize > 0 {
		batchOpts = append(batchOpts, ingestion.WithBatchSize(cfg.Embedding.BatchSize))
	}
	if cfg.Embedding.PoolSize > 0 {
		batchOpts = append(batchOpts, ingestion.WithPoolSize(cfg.Embedding.PoolSize))
	}

	retriever, err := search.NewRetriever(ctx, embedder, snapshots, cfg.Embedding.Dimensions,
		search.WithLogger(options.logger),
		search.WithBatchOptions(batchOpts...),
	)
	if err != nil {
		snapshots.Close()
		return nil, err
	}

	var queries *cache.QueryCache
	if cfg.Cache.Enabled {
		queries, err = cache.NewQueryCache(
			cache.WithCapacity(cfg.Cache.Capacity),
			cache.WithTTL(cfg.Cache.TTL),
		)
		if err != nil {
			retriever.Close()
			snapshots.Close()
			return nil, err
		}
	}

	return &Engine{
		cfg:       cfg,
		snapshots: snapshots,
		retriever: retriever,
		queries:   queries,
		logger:    options.logger,
	}, nil
}

func openSnapshotStore(cfg *config.Config) (storage.SnapshotStore, error) {
	switch cfg.Storage.Backend {
	case "file":
		return file.NewStore(cfg.Storage.IndexPath, cfg.Storage.MetadataPath)
	case "badger":
		return badger.OpenStore(cfg.Storage.Dir, false)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Ingest adds documents to the corpus and persists the result. Any
// cached query results are invalidated.
func (e *Engine) Ingest(ctx context.Context, texts []string) error {
	if err := e.retriever.Ingest(ctx, texts); err != nil {
		return err
	}
	if e.queries != nil {
		e.queries.Purge()
	}
	return nil
}

// HybridSearch answers a query from the cache when possible, otherwise
// runs the full hybrid ranking and caches the outcome.
func (e *Engine) HybridSearch(ctx context.Context, query string, k int, alpha float64) ([]core.Hit, error) {
	if e.queries != nil {
		if hits, ok := e.queries.Get(query, k, alpha); ok {
			e.logger.Debug("query served from cache", "query", query)
			return hits, nil
		}
	}

	hits, err := e.retriever.HybridSearch(ctx, query, k, alpha)
	if err != nil {
		return nil, err
	}
	if e.queries != nil {
		e.queries.Put(query, k, alpha, hits)
	}
	return hits, nil
}

// Search runs a hybrid query with the configured default k and alpha.
func (e *Engine) Search(ctx context.Context, query string) ([]core.Hit, error) {
	return e.HybridSearch(ctx, query, e.cfg.Search.DefaultK, e.cfg.Search.DefaultAlpha)
}

// DenseSearch exposes the dense-only diagnostic ranking.
func (e *Engine) DenseSearch(ctx context.Context, query string, k int) ([]core.Match, error) {
	return e.retriever.DenseSearch(ctx, query, k)
}

// SparseSearch exposes the BM25-only diagnostic ranking.
func (e *Engine) SparseSearch(query string, k int) ([]core.Match, error) {
	return e.retriever.SparseSearch(query, k)
}

// Document returns the stored text for an id.
func (e *Engine) Document(id int) (string, error) {
	return e.retriever.Get(id)
}

// Len reports the number of documents in the corpus.
func (e *Engine) Len() int {
	return e.retriever.Len()
}

// State reports the retriever lifecycle state.
func (e *Engine) State() search.State {
	return e.retriever.State()
}

// Close releases the retriever and the snapshot store.
func (e *Engine) Close() error {
	if err := e.retriever.Close(); err != nil {
		e.logger.Error("error closing retriever", "err", err)
	}
	if err := e.snapshots.Close(); err != nil {
		e.logger.Error("error closing snapshot store", "err", err)
		return err
	}
	return nil
}
