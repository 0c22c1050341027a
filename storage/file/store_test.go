package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShaileshDhama/finrag/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "embeddings", "index.bin")
	metadataPath := filepath.Join(dir, "embeddings", "corpus.bin")
	store, err := NewStore(indexPath, metadataPath)
	require.NoError(t, err)
	return store, indexPath, metadataPath
}

func testSnapshot() *storage.Snapshot {
	return &storage.Snapshot{
		Dimension: 2,
		Vectors:   [][]float32{{1, 2}, {3, 4}, {5, 6}},
		Texts:     []string{"one", "two", "three"},
	}
}

func TestNewStore_RequiresPaths(t *testing.T) {
	_, err := NewStore("", "meta")
	assert.Error(t, err)
	_, err = NewStore("index", "")
	assert.Error(t, err)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), loaded)
}

func TestStore_SaveCreatesParentDirectories(t *testing.T) {
	store, indexPath, metadataPath := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), testSnapshot()))

	_, err := os.Stat(indexPath)
	assert.NoError(t, err)
	_, err = os.Stat(metadataPath)
	assert.NoError(t, err)
}

func TestStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	bigger := &storage.Snapshot{
		Dimension: 2,
		Vectors:   [][]float32{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
		Texts:     []string{"one", "two", "three", "four"},
	}
	require.NoError(t, store.Save(ctx, bigger))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Texts, 4)
}

func TestStore_LoadMissingSnapshot(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestStore_LoadIncompletePair(t *testing.T) {
	store, indexPath, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, os.Remove(indexPath))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}

func TestStore_LoadCorruptBlob(t *testing.T) {
	store, indexPath, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, os.WriteFile(indexPath, []byte("not a snapshot"), 0o644))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}

func TestStore_SaveRejectsInconsistentSnapshot(t *testing.T) {
	store, _, _ := newTestStore(t)

	bad := &storage.Snapshot{
		Dimension: 2,
		Vectors:   [][]float32{{1, 2}},
		Texts:     []string{"one", "two"},
	}
	err := store.Save(context.Background(), bad)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	store, indexPath, _ := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), testSnapshot()))

	entries, err := os.ReadDir(filepath.Dir(indexPath))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
