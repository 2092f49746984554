package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorCache = (*VectorCache)(nil)

// DefaultCacheTTL bounds staleness of cached centroids and coherence
// scores.
const DefaultCacheTTL = 5 * time.Minute

type vectorEntry struct {
	vector    []float32
	expiresAt time.Time
}

type scoreEntry struct {
	score     float64
	expiresAt time.Time
}

// VectorCache is the in-process VectorCache used when no Redis backend
// is configured. Expired entries are dropped lazily on read; there is
// no background sweeper.
type VectorCache struct {
	mu      sync.RWMutex
	vectors map[string]vectorEntry
	scores  map[string]scoreEntry
	ttl     time.Duration

	// now is swappable for expiry tests
	now func() time.Time
}

// NewVectorCache creates an in-memory VectorCache with the default TTL
func NewVectorCache() *VectorCache {
	return NewVectorCacheWithTTL(DefaultCacheTTL)
}

// NewVectorCacheWithTTL creates an in-memory VectorCache with a custom TTL
func NewVectorCacheWithTTL(ttl time.Duration) *VectorCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &VectorCache{
		vectors: make(map[string]vectorEntry),
		scores:  make(map[string]scoreEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetVector returns a cached vector, ok=false on miss or expiry
func (c *VectorCache) GetVector(_ context.Context, key string) ([]float32, bool) {
	c.mu.RLock()
	entry, ok := c.vectors[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.vectors, key)
		c.mu.Unlock()
		return nil, false
	}

	// Copy out so callers cannot mutate the cached slice.
	vector := make([]float32, len(entry.vector))
	copy(vector, entry.vector)
	return vector, true
}

// SetVector stores a vector under key
func (c *VectorCache) SetVector(_ context.Context, key string, vector []float32) error {
	stored := make([]float32, len(vector))
	copy(stored, vector)

	c.mu.Lock()
	c.vectors[key] = vectorEntry{vector: stored, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// GetScore returns a cached scalar score, ok=false on miss or expiry
func (c *VectorCache) GetScore(_ context.Context, key string) (float64, bool) {
	c.mu.RLock()
	entry, ok := c.scores[key]
	c.mu.RUnlock()

	if !ok {
		return 0, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.scores, key)
		c.mu.Unlock()
		return 0, false
	}
	return entry.score, true
}

// SetScore stores a scalar score under key
func (c *VectorCache) SetScore(_ context.Context, key string, score float64) error {
	c.mu.Lock()
	c.scores[key] = scoreEntry{score: score, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate removes all entries for the given key
func (c *VectorCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.vectors, key)
	delete(c.scores, key)
	c.mu.Unlock()
	return nil
}

// InvalidateAll clears the cache
func (c *VectorCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	c.vectors = make(map[string]vectorEntry)
	c.scores = make(map[string]scoreEntry)
	c.mu.Unlock()
	return nil
}
