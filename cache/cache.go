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


// Package cache provides an LRU result cache for hybrid queries.
//
// Keys are derived from the full query shape (text, k, alpha), so two
// requests only share an entry when they would produce identical
// results. Every ingestion purges the cache wholesale: results are
// computed against a corpus version and must never outlive it.
package cache

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ShaileshDhama/finrag/core"
	"github.com/go-crypt/x/blake2b"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultCapacity bounds the number of cached queries.
	DefaultCapacity = 512
	// DefaultTTL is how long an entry stays valid between ingestions.
	DefaultTTL = 15 * time.Minute
)

// queryKey identifies a query by a 128-bit BLAKE2b digest.
type queryKey [16]byte

type entry struct {
	hits    []core.Hit
	expires time.Time
}

// QueryCache caches hybrid search results keyed by (query, k, alpha).
type QueryCache struct {
	entries  *lru.Cache[queryKey, entry]
	ttl      time.Duration
	capacity int
}

// Options configure a QueryCache.
type Options func(*QueryCache)

// WithCapacity overrides the entry limit.
func WithCapacity(capacity int) Options {
	return func(c *QueryCache) {
		c.capacity = capacity
	}
}

// WithTTL overrides how long entries stay valid.
func WithTTL(ttl time.Duration) Options {
	return func(c *QueryCache) {
		c.ttl = ttl
	}
}

// NewQueryCache creates a cache with the given options.
func NewQueryCache(opts ...Options) (*QueryCache, error) {
	cache := &QueryCache{
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(cache)
	}
	if cache.capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", cache.capacity)
	}
	if cache.ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %v", cache.ttl)
	}

	entries, err := lru.New[queryKey, entry](cache.capacity)
	if err != nil {
		return nil, err
	}
	cache.entries = entries
	return cache, nil
}

// keyFor hashes the full query shape into a fixed-size key.
func keyFor(query string, k int, alpha float64) queryKey {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(query))

	var tail [16]byte
	binary.LittleEndian.PutUint64(tail[:8], uint64(k))
	binary.LittleEndian.PutUint64(tail[8:], math.Float64bits(alpha))
	h.Write(tail[:])

	var key queryKey
	copy(key[:], h.Sum(nil))
	return key
}

// Get returns the cached hits for a query, or ok=false on a miss.
// Expired entries count as misses and are evicted on sight.
func (c *QueryCache) Get(query string, k int, alpha float64) ([]core.Hit, bool) {
	key := keyFor(query, k, alpha)

	cached, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(cached.expires) {
		c.entries.Remove(key)
		return nil, false
	}

	hits := make([]core.Hit, len(cached.hits))
	copy(hits, cached.hits)
	return hits, true
}

// Put stores hits for a query.
func (c *QueryCache) Put(query string, k int, alpha float64, hits []core.Hit) {
	stored := make([]core.Hit, len(hits))
	copy(stored, hits)

	c.entries.Add(keyFor(query, k, alpha), entry{
		hits:    stored,
		expires: time.Now().Add(c.ttl),
	})
}

// Purge drops every entry. Called after each ingestion so stale
// results never survive a corpus change.
func (c *QueryCache) Purge() {
	c.entries.Purge()
}

// Len reports the current number of entries.
func (c *QueryCache) Len() int {
	return c.entries.Len()
}
