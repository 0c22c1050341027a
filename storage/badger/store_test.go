package badger

import (
	"context"
	"testing"

	"github.com/ShaileshDhama/finrag/storage"
	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore("", true)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testSnapshot() *storage.Snapshot {
	return &storage.Snapshot{
		Dimension: 3,
		Vectors: [][]float32{
			{0.1, 0.2, 0.3},
			{0.4, 0.5, 0.6},
		},
		Texts: []string{"interest rates rise", "stocks fall today"},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), loaded)
}

func TestStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	next := &storage.Snapshot{
		Dimension: 2,
		Vectors:   [][]float32{{1, 2}},
		Texts:     []string{"inflation cools"},
	}
	require.NoError(t, store.Save(ctx, next))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, loaded)
}

func TestStore_SaveRejectsInconsistentSnapshot(t *testing.T) {
	store := newTestStore(t)

	bad := testSnapshot()
	bad.Texts = bad.Texts[:1]

	err := store.Save(context.Background(), bad)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}

func TestStore_LoadIncompletePair(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	// Drop one half of the pair directly.
	require.NoError(t, store.db.Update(func(tx *badgerdb.Txn) error {
		return tx.Delete([]byte(corpusKey))
	}))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}

func TestStore_LoadCorruptBlob(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	require.NoError(t, store.db.Update(func(tx *badgerdb.Txn) error {
		return tx.Set([]byte(vectorIndexKey), []byte("not a snapshot"))
	}))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}

func TestStore_SaveEmptyCorpus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	empty := &storage.Snapshot{Dimension: 3, Vectors: [][]float32{}, Texts: []string{}}
	require.NoError(t, store.Save(ctx, empty))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Dimension)
	assert.Empty(t, loaded.Vectors)
	assert.Empty(t, loaded.Texts)
}
