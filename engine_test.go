package finrag

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ShaileshDhama/finrag/ai/mock"
	"github.com/ShaileshDhama/finrag/config"
	"github.com/ShaileshDhama/finrag/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.IndexPath = filepath.Join(dir, "index.bin")
	cfg.Storage.MetadataPath = filepath.Join(dir, "corpus.bin")
	cfg.Embedding.Dimensions = 8
	cfg.Search.DefaultK = 2
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) (*Engine, *mock.MockEmbedder) {
	t.Helper()

	embedder := mock.NewMockEmbedder(cfg.Embedding.Dimensions)
	engine, err := NewEngine(context.Background(), cfg, WithEmbedder(embedder))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, engine.Close())
	})
	return engine, embedder
}

func TestEngine_IngestAndSearch(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{
		"Interest rates rise",
		"Stocks fall today",
		"Interest rates and inflation",
	}))
	assert.Equal(t, 3, engine.Len())
	assert.Equal(t, search.StateReady, engine.State())

	hits, err := engine.HybridSearch(ctx, "interest rates", 2, 0.0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.ElementsMatch(t,
		[]string{"Interest rates rise", "Interest rates and inflation"},
		[]string{hits[0].Text, hits[1].Text})
}

func TestEngine_SearchUsesConfiguredDefaults(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{"a doc", "b doc", "c doc"}))

	hits, err := engine.Search(ctx, "doc")
	require.NoError(t, err)
	assert.Len(t, hits, 2, "default k applies")
}

func TestEngine_CacheServesRepeatedQueries(t *testing.T) {
	engine, embedder := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{"Interest rates rise"}))

	first, err := engine.HybridSearch(ctx, "interest rates", 1, 0.5)
	require.NoError(t, err)
	calls := embedder.CallCount()

	second, err := engine.HybridSearch(ctx, "interest rates", 1, 0.5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, calls, embedder.CallCount(), "repeat query answered without embedding")
}

func TestEngine_IngestInvalidatesCache(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(t))
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{"Interest rates rise"}))

	hits, err := engine.HybridSearch(ctx, "interest rates", 2, 0.0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, engine.Ingest(ctx, []string{"Interest rates and inflation"}))

	hits, err = engine.HybridSearch(ctx, "interest rates", 2, 0.0)
	require.NoError(t, err)
	assert.Len(t, hits, 2, "new document visible immediately after ingestion")
}

func TestEngine_CacheDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	engine, embedder := newTestEngine(t, cfg)
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{"Interest rates rise"}))

	_, err := engine.HybridSearch(ctx, "interest rates", 1, 0.5)
	require.NoError(t, err)
	calls := embedder.CallCount()

	_, err = engine.HybridSearch(ctx, "interest rates", 1, 0.5)
	require.NoError(t, err)
	assert.Greater(t, embedder.CallCount(), calls, "every query embeds when cache is off")
}

func TestEngine_BadgerBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "badger"
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "badger")
	engine, _ := newTestEngine(t, cfg)
	ctx := context.Background()

	require.NoError(t, engine.Ingest(ctx, []string{"bond yields climb"}))

	hits, err := engine.HybridSearch(ctx, "bond yields", 1, 0.0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "bond yields climb", hits[0].Text)
}

func TestEngine_PersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder(cfg.Embedding.Dimensions)
	first, err := NewEngine(ctx, cfg, WithEmbedder(embedder))
	require.NoError(t, err)
	require.NoError(t, first.Ingest(ctx, []string{"Interest rates rise"}))
	require.NoError(t, first.Close())

	second, err := NewEngine(ctx, cfg, WithEmbedder(embedder))
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 1, second.Len())

	doc, err := second.Document(0)
	require.NoError(t, err)
	assert.Equal(t, "Interest rates rise", doc)
}

func TestEngine_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "s3"

	_, err := NewEngine(context.Background(), cfg)
	assert.Error(t, err)
}
