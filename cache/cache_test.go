package cache

import (
	"testing"
	"time"

	"github.com/ShaileshDhama/finrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_HitAndMiss(t *testing.T) {
	cache, err := NewQueryCache()
	require.NoError(t, err)

	hits := []core.Hit{
		{Text: "interest rates rise", Score: 1.0},
		{Text: "interest rates and inflation", Score: 0.7},
	}
	cache.Put("interest rates", 2, 0.5, hits)

	got, ok := cache.Get("interest rates", 2, 0.5)
	require.True(t, ok)
	assert.Equal(t, hits, got)

	_, ok = cache.Get("interest rates", 3, 0.5)
	assert.False(t, ok, "different k must be a distinct entry")

	_, ok = cache.Get("interest rates", 2, 0.6)
	assert.False(t, ok, "different alpha must be a distinct entry")

	_, ok = cache.Get("inflation", 2, 0.5)
	assert.False(t, ok)
}

func TestQueryCache_ReturnsCopies(t *testing.T) {
	cache, err := NewQueryCache()
	require.NoError(t, err)

	cache.Put("q", 1, 1.0, []core.Hit{{Text: "a", Score: 0.5}})

	got, ok := cache.Get("q", 1, 1.0)
	require.True(t, ok)
	got[0].Score = 0

	again, ok := cache.Get("q", 1, 1.0)
	require.True(t, ok)
	assert.Equal(t, 0.5, again[0].Score)
}

func TestQueryCache_TTLExpiry(t *testing.T) {
	cache, err := NewQueryCache(WithTTL(10 * time.Millisecond))
	require.NoError(t, err)

	cache.Put("q", 1, 1.0, []core.Hit{{Text: "a", Score: 0.5}})

	_, ok := cache.Get("q", 1, 1.0)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = cache.Get("q", 1, 1.0)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len(), "expired entry is evicted on access")
}

func TestQueryCache_Purge(t *testing.T) {
	cache, err := NewQueryCache()
	require.NoError(t, err)

	cache.Put("a", 1, 1.0, []core.Hit{{Text: "a", Score: 1}})
	cache.Put("b", 1, 1.0, []core.Hit{{Text: "b", Score: 1}})
	require.Equal(t, 2, cache.Len())

	cache.Purge()

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("a", 1, 1.0)
	assert.False(t, ok)
}

func TestQueryCache_CapacityEviction(t *testing.T) {
	cache, err := NewQueryCache(WithCapacity(2))
	require.NoError(t, err)

	cache.Put("a", 1, 1.0, []core.Hit{{Text: "a", Score: 1}})
	cache.Put("b", 1, 1.0, []core.Hit{{Text: "b", Score: 1}})
	cache.Put("c", 1, 1.0, []core.Hit{{Text: "c", Score: 1}})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("a", 1, 1.0)
	assert.False(t, ok, "oldest entry evicted at capacity")
}

func TestQueryCache_InvalidOptions(t *testing.T) {
	_, err := NewQueryCache(WithCapacity(0))
	assert.Error(t, err)

	_, err = NewQueryCache(WithTTL(0))
	assert.Error(t, err)
}
