package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorCache = (*VectorCache)(nil)

const (
	// Key prefixes for Redis
	vectorPrefix = "fs:vector:"
	scorePrefix  = "fs:score:"

	// DefaultCacheTTL bounds staleness of cached centroids and
	// coherence scores.
	DefaultCacheTTL = 5 * time.Minute
)

// VectorCache implements driven.VectorCache using Redis.
// Expiry rides on Redis TTL; a miss and an expired entry are
// indistinguishable, which is exactly what callers want.
type VectorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVectorCache creates a new Redis-backed VectorCache
func NewVectorCache(client *redis.Client) *VectorCache {
	return NewVectorCacheWithTTL(client, DefaultCacheTTL)
}

// NewVectorCacheWithTTL creates a VectorCache with a custom TTL
func NewVectorCacheWithTTL(client *redis.Client, ttl time.Duration) *VectorCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &VectorCache{client: client, ttl: ttl}
}

// GetVector returns a cached vector, ok=false on miss or expiry
func (c *VectorCache) GetVector(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.client.Get(ctx, vectorPrefix+key).Bytes()
	if err != nil {
		// redis.Nil and transport failures both degrade to a miss
		return nil, false
	}

	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, false
	}
	if len(vector) == 0 {
		return nil, false
	}
	return vector, true
}

// SetVector stores a vector under key
func (c *VectorCache) SetVector(ctx context.Context, key string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}

	if err := c.client.Set(ctx, vectorPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache vector: %w", err)
	}
	return nil
}

// GetScore returns a cached scalar score, ok=false on miss or expiry
func (c *VectorCache) GetScore(ctx context.Context, key string) (float64, bool) {
	raw, err := c.client.Get(ctx, scorePrefix+key).Result()
	if err != nil {
		return 0, false
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

// SetScore stores a scalar score under key
func (c *VectorCache) SetScore(ctx context.Context, key string, score float64) error {
	raw := strconv.FormatFloat(score, 'g', -1, 64)
	if err := c.client.Set(ctx, scorePrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache score: %w", err)
	}
	return nil
}

// Invalidate removes all entries for the given key
func (c *VectorCache) Invalidate(ctx context.Context, key string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, vectorPrefix+key)
	pipe.Del(ctx, scorePrefix+key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	return nil
}

// InvalidateAll clears the cache.
// Only keys under this cache's prefixes are touched; the client may be
// shared with other stores.
func (c *VectorCache) InvalidateAll(ctx context.Context) error {
	for _, prefix := range []string{vectorPrefix, scorePrefix} {
		iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan %s keys: %w", prefix, err)
		}
	}
	return nil
}
