package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestVectorCache creates a test Redis client and VectorCache
func setupTestVectorCache(t *testing.T) (*VectorCache, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewVectorCacheWithTTL(client, time.Minute)

	return cache, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestVectorCache_SetGetVector(t *testing.T) {
	cache, _, cleanup := setupTestVectorCache(t)
	defer cleanup()

	ctx := context.Background()
	vector := []float32{0.1, 0.2, 0.3}

	if err := cache.SetVector(ctx, "centroid:Projects", vector); err != nil {
		t.Fatalf("SetVector() error = %v", err)
	}

	got, ok := cache.GetVector(ctx, "centroid:Projects")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 3 || got[0] != 0.1 || got[2] != 0.3 {
		t.Errorf("GetVector() = %v, want %v", got, vector)
	}
}

func TestVectorCache_GetVector_Miss(t *testing.T) {
	cache, _, cleanup := setupTestVectorCache(t)
	defer cleanup()

	if _, ok := cache.GetVector(context.Background(), "centroid:unknown"); ok {
		t.Error("expected cache miss")
	}
}

func TestVectorCache_VectorExpires(t *testing.T) {
	cache, mr, cleanup := setupTestVectorCache(t)
	defer cleanup()

	ctx := context.Background()
	if err := cache.SetVector(ctx, "centroid:Projects", []float32{1}); err != nil {
		t.Fatalf("SetVector() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok := cache.GetVector(ctx, "centroid:Projects"); ok {
		t.Error("expected entry to expire")
	}
}

func TestVectorCache_SetGetScore(t *testing.T) {
	cache, _, cleanup := setupTestVectorCache(t)
	defer cleanup()

	ctx := context.Background()
	if err := cache.SetScore(ctx, "coherence:Projects", 0.73); err != nil {
		t.Fatalf("SetScore() error = %v", err)
	}

	got, ok := cache.GetScore(ctx, "coherence:Projects")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != 0.73 {
		t.Errorf("GetScore() = %v, want 0.73", got)
	}
}

func TestVectorCache_GetScore_Miss(t *testing.T) {
	cache, _, cleanup := setupTestVectorCache(t)
	defer cleanup()

	if _, ok := cache.GetScore(context.Background(), "coherence:unknown"); ok {
		t.Error("expected cache miss")
	}
}

func TestVectorCache_KeyIsolation(t *testing.T) {
	cache, _, cleanup := setupTestVectorCache(t)
	defer cleanup()

	ctx := context.Background()
	// Vector and score entries under the same key must not collide.
	if err := cache.SetVector(ctx, "Projects", []float32{1, 2}); err != nil {
		t.Fatalf("SetVector() error = %v", err)
	}
	if err := cache.SetScore(ctx, "Projects", 0.5); err != nil {
		t.Fatalf("SetScore() error = %v", err)
	}

	if _, ok := cache.GetVector(ctx, "Projects"); !ok {
		t.Error("vector entry lost")
	}
	if _, ok := cache.GetScore(ctx, "Projects"); !ok {
		t.Error("score entry lost")
	}
}

func TestVectorCache_Invalidate(t *testing.T) {
	cache, _, cleanup := setupTestVectorCache(t)
	defer cleanup()

	ctx := context.Background()
	_ = cache.SetVector(ctx, "Projects", []float32{1})
	_ = cache.SetScore(ctx, "Projects", 0.9)
	_ = cache.SetVector(ctx, "Archive", []float32{2})

	if err := cache.Invalidate(ctx, "Projects"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	if _, ok := cache.GetVector(ctx, "Projects"); ok {
		t.Error("vector entry survived invalidation")
	}
	if _, ok := cache.GetScore(ctx, "Projects"); ok {
		t.Error("score entry survived invalidation")
	}
	if _, ok := cache.GetVector(ctx, "Archive"); !ok {
		t.Error("unrelated entry was invalidated")
	}
}

func TestVectorCache_InvalidateAll(t *testing.T) {
	cache, mr, cleanup := setupTestVectorCache(t)
	defer cleanup()

	ctx := context.Background()
	_ = cache.SetVector(ctx, "Projects", []float32{1})
	_ = cache.SetScore(ctx, "Archive", 0.4)

	// A foreign key sharing the client must survive.
	mr.Set("other:key", "value")

	if err := cache.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}

	if _, ok := cache.GetVector(ctx, "Projects"); ok {
		t.Error("vector entry survived InvalidateAll")
	}
	if _, ok := cache.GetScore(ctx, "Archive"); ok {
		t.Error("score entry survived InvalidateAll")
	}
	if !mr.Exists("other:key") {
		t.Error("foreign key was deleted")
	}
}

func TestVectorCache_DefaultTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewVectorCache(client)
	if cache.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, DefaultCacheTTL)
	}

	cache = NewVectorCacheWithTTL(client, -1)
	if cache.ttl != DefaultCacheTTL {
		t.Errorf("non-positive ttl must fall back to default, got %v", cache.ttl)
	}
}
