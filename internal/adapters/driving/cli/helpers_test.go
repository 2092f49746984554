package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/foldersense/internal/core/ports/driving"
	"github.com/custodia-labs/foldersense/internal/core/services"
	"github.com/custodia-labs/foldersense/internal/runtime"
	"github.com/custodia-labs/foldersense/internal/worker"
)

type stubRecommender struct {
	recommendFn func(ctx context.Context, doc *domain.DocumentProfile, folders []*domain.FolderProfile, opts driving.RecommendOptions) (*domain.RecommendationResult, error)
}

func (s *stubRecommender) Recommend(ctx context.Context, doc *domain.DocumentProfile, folders []*domain.FolderProfile, opts driving.RecommendOptions) (*domain.RecommendationResult, error) {
	if s.recommendFn != nil {
		return s.recommendFn(ctx, doc, folders, opts)
	}
	return &domain.RecommendationResult{
		DocumentPath: doc.Path,
		Primary: &domain.Recommendation{
			FolderPath:    "Projects",
			FolderName:    "Projects",
			Confidence:    82,
			MatchStrength: domain.MatchStrong,
			Reasoning:     "project planning note",
		},
		Alternatives: []*domain.Recommendation{
			{
				FolderPath:    "Archive",
				FolderName:    "Archive",
				Confidence:    65,
				MatchStrength: domain.MatchModerate,
			},
		},
	}, nil
}

type stubProfiler struct{}

func (s *stubProfiler) Centroid(context.Context, string, []string) ([]float32, bool) {
	return []float32{1, 0}, true
}

func (s *stubProfiler) Coherence(context.Context, string, []string) float64 {
	return domain.DefaultCoherence
}

func (s *stubProfiler) Populate(_ context.Context, folders []*domain.FolderProfile) error {
	for _, folder := range folders {
		folder.HasValidCentroid = true
	}
	return nil
}

func (s *stubProfiler) Invalidate(context.Context, string) error { return nil }

// setupTestServices replaces the command's wiring with in-memory
// stubs. The returned cleanup restores whatever was there before.
func setupTestServices() func() {
	origRecommender := recommenderService
	origProfile := profileService
	origCatalog := catalogService
	origIndexer := indexerService
	origWorker := batchWorker
	origCleanup := appCleanup

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	vault := mocks.NewMockVault()
	vault.Files["note.md"] = "# Quarterly Planning\n\nGoals for the quarter."
	vault.Files["Projects/roadmap.md"] = "# Roadmap\n\nMilestones."
	vault.Folders = []driven.FolderEntry{
		{Path: "Projects", Name: "Projects", NotePaths: []string{"Projects/roadmap.md"}},
	}

	catalog := services.NewCatalog(vault, logger)

	embedder := mocks.NewMockEmbeddingService()
	embedder.EmbedFn = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}
	registry := runtime.NewServices(domain.NewRuntimeConfig("memory"))
	registry.SetEmbeddingService(embedder)

	recommenderService = &stubRecommender{}
	profileService = &stubProfiler{}
	catalogService = catalog
	indexerService = services.NewIndexer(services.IndexerConfig{
		Catalog:  catalog,
		Services: registry,
		Writer:   mocks.NewMockVectorWriter(),
		Logger:   logger,
	})
	batchWorker = worker.New(worker.Config{
		Recommender: recommenderService,
		Catalog:     catalog,
		Logger:      logger,
		Concurrency: 2,
	})
	appCleanup = nil

	return func() {
		recommenderService = origRecommender
		profileService = origProfile
		catalogService = origCatalog
		indexerService = origIndexer
		batchWorker = origWorker
		appCleanup = origCleanup
	}
}
