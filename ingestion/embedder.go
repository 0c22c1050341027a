package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ShaileshDhama/finrag/ai"
	"github.com/panjf2000/ants/v2"
)

const defaultBatchSize = 32

// BatchEmbedder embeds ordered batches of texts concurrently while
// preserving input order in the output.
type BatchEmbedder struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a BatchEmbedder.
type Option func(*BatchEmbedder) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *BatchEmbedder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of texts per embedding request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(b *BatchEmbedder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *BatchEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBatchEmbedder creates a batch embedder backed by a worker pool.
func NewBatchEmbedder(embedder ai.Embedder, opts ...Option) (*BatchEmbedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &BatchEmbedder{
		embedder:  embedder,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	return b, nil
}

// EmbedAll embeds all texts and returns vectors in input order.
// Sub-batches run concurrently on the pool; the first error wins and is
// returned after all workers finish.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		offset, batch := start, texts[start:end]

		wg.Add(1)
		submitErr := b.pool.Submit(func() {
			defer wg.Done()

			embedded, err := b.embedder.EmbedTexts(ctx, batch)
			if err == nil && len(embedded) != len(batch) {
				b.logger.Error("embedder returned wrong vector count",
					"want", len(batch), "got", len(embedded))
				err = ErrEmbeddingCountMismatch
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			copy(vectors[offset:], embedded)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Release releases the worker pool.
// The embedder should not be used after calling Release.
func (b *BatchEmbedder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
