package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
	"github.com/custodia-labs/foldersense/internal/core/ports/driving"
)

// Ensure profileBuilder implements ProfileService
var _ driving.ProfileService = (*profileBuilder)(nil)

// Cache key prefixes
const (
	centroidKeyPrefix  = "centroid:"
	coherenceKeyPrefix = "coherence:"
)

// DefaultProfileConcurrency caps the fan-out when profiling a whole
// collection, to avoid saturating the host's I/O.
const DefaultProfileConcurrency = 4

// profileBuilder computes folder centroids and coherence scores.
// Results are cached keyed by folder path; cache writes are idempotent
// so concurrent duplicate computation is tolerated (first write wins).
type profileBuilder struct {
	store       *EmbeddingStore
	cache       driven.VectorCache
	logger      *slog.Logger
	concurrency int
}

// ProfileBuilderConfig holds configuration for the profile builder.
type ProfileBuilderConfig struct {
	Store       *EmbeddingStore
	Cache       driven.VectorCache
	Logger      *slog.Logger
	Concurrency int // Fan-out cap for Populate, defaults to DefaultProfileConcurrency
}

// NewProfileBuilder creates a new ProfileService.
func NewProfileBuilder(cfg ProfileBuilderConfig) driving.ProfileService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultProfileConcurrency
	}
	return &profileBuilder{
		store:       cfg.Store,
		cache:       cfg.Cache,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Centroid returns the componentwise mean of the folder members'
// embeddings, skipping members with no resolvable vector. ok=false
// when no member resolved. Deterministic for a fixed member set, so
// the per-folder cache entry can be published by whichever concurrent
// computation finishes first.
func (b *profileBuilder) Centroid(ctx context.Context, folderKey string, memberIDs []string) ([]float32, bool) {
	if cached, ok := b.cache.GetVector(ctx, centroidKeyPrefix+folderKey); ok {
		return cached, true
	}

	vectors := b.memberVectors(ctx, memberIDs)
	if len(vectors) == 0 {
		return nil, false
	}

	centroid, err := domain.Centroid(vectors)
	if err != nil || centroid == nil {
		b.logger.Debug("centroid computation failed", "folder", folderKey, "error", err)
		return nil, false
	}

	if err := b.cache.SetVector(ctx, centroidKeyPrefix+folderKey, centroid); err != nil {
		b.logger.Debug("centroid cache write failed", "folder", folderKey, "error", err)
	}

	return centroid, true
}

// Coherence returns the mean pairwise cosine similarity of the
// folder's member embeddings. Folders with fewer than two valid
// embeddings get the sparse-data default.
func (b *profileBuilder) Coherence(ctx context.Context, folderKey string, memberIDs []string) float64 {
	if cached, ok := b.cache.GetScore(ctx, coherenceKeyPrefix+folderKey); ok {
		return cached
	}

	vectors := b.memberVectors(ctx, memberIDs)
	coherence := domain.MeanPairwiseSimilarity(vectors)

	if err := b.cache.SetScore(ctx, coherenceKeyPrefix+folderKey, coherence); err != nil {
		b.logger.Debug("coherence cache write failed", "folder", folderKey, "error", err)
	}

	return coherence
}

// Populate fills Centroid, Coherence and HasValidCentroid on each
// folder profile. Folders are processed with a bounded concurrent
// fan-out: each computation reads read-only embedding data and writes
// only its own profile and cache slot.
func (b *profileBuilder) Populate(ctx context.Context, folders []*domain.FolderProfile) error {
	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for _, folder := range folders {
		wg.Add(1)
		sem <- struct{}{}
		go func(f *domain.FolderProfile) {
			defer wg.Done()
			defer func() { <-sem }()

			centroid, ok := b.Centroid(ctx, f.Path, f.MemberIDs)
			f.Centroid = centroid
			f.HasValidCentroid = ok
			f.Coherence = b.Coherence(ctx, f.Path, f.MemberIDs)
		}(folder)
	}

	wg.Wait()
	return ctx.Err()
}

// Invalidate drops cached centroid and coherence values for one folder.
func (b *profileBuilder) Invalidate(ctx context.Context, folderKey string) error {
	if err := b.cache.Invalidate(ctx, centroidKeyPrefix+folderKey); err != nil {
		return err
	}
	return b.cache.Invalidate(ctx, coherenceKeyPrefix+folderKey)
}

// memberVectors resolves member embeddings, skipping misses.
func (b *profileBuilder) memberVectors(ctx context.Context, memberIDs []string) [][]float32 {
	vectors := make([][]float32, 0, len(memberIDs))
	for _, id := range memberIDs {
		if vec, ok := b.store.Lookup(ctx, id, ""); ok {
			vectors = append(vectors, vec)
		}
	}
	return vectors
}
