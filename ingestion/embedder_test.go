package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ShaileshDhama/finrag/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchEmbedder(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewBatchEmbedder(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("with options", func(t *testing.T) {
		b, err := NewBatchEmbedder(mock.NewMockEmbedder(4), WithPoolSize(2), WithBatchSize(8))
		require.NoError(t, err)
		defer b.Release()
		assert.Equal(t, 8, b.batchSize)
	})
}

func TestBatchEmbedder_EmbedAll_PreservesOrder(t *testing.T) {
	embedder := mock.NewMockEmbedder(2)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		// Encode the text's sequence number into the vector so order
		// violations are visible.
		out := make([][]float32, len(texts))
		for i, text := range texts {
			var n float32
			fmt.Sscanf(text, "doc-%f", &n)
			out[i] = []float32{n, 0}
		}
		return out, nil
	}

	b, err := NewBatchEmbedder(embedder, WithBatchSize(3), WithPoolSize(4))
	require.NoError(t, err)
	defer b.Release()

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("doc-%d", i)
	}

	vectors, err := b.EmbedAll(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 20)
	for i, v := range vectors {
		assert.Equal(t, float32(i), v[0], "vector %d out of order", i)
	}
}

func TestBatchEmbedder_EmbedAll_Empty(t *testing.T) {
	b, err := NewBatchEmbedder(mock.NewMockEmbedder(4))
	require.NoError(t, err)
	defer b.Release()

	vectors, err := b.EmbedAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestBatchEmbedder_EmbedAll_PropagatesError(t *testing.T) {
	boom := errors.New("embedding service down")
	embedder := mock.NewMockEmbedder(4)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	b, err := NewBatchEmbedder(embedder, WithBatchSize(1))
	require.NoError(t, err)
	defer b.Release()

	_, err = b.EmbedAll(context.Background(), []string{"a", "b", "c"})
	assert.ErrorIs(t, err, boom)
}

func TestBatchEmbedder_EmbedAll_CountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder(4)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2, 3, 4}}, nil // always one vector
	}

	b, err := NewBatchEmbedder(embedder, WithBatchSize(10))
	require.NoError(t, err)
	defer b.Release()

	_, err = b.EmbedAll(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
}
