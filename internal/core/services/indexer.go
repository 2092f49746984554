package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
	"github.com/custodia-labs/foldersense/internal/runtime"
)

// Indexer embeds vault notes with the live embedding provider and
// upserts the vectors into a persistent store, so later runs resolve
// embeddings offline without a provider configured.
type Indexer struct {
	catalog  *Catalog
	services *runtime.Services
	writer   driven.VectorWriter
	logger   *slog.Logger
}

// IndexerConfig holds configuration for the indexer.
type IndexerConfig struct {
	Catalog  *Catalog
	Services *runtime.Services
	Writer   driven.VectorWriter // Nil when no persistent store is configured
	Logger   *slog.Logger
}

// NewIndexer creates a new Indexer.
func NewIndexer(cfg IndexerConfig) *Indexer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		catalog:  cfg.Catalog,
		services: cfg.Services,
		writer:   cfg.Writer,
		logger:   logger,
	}
}

// IndexStats summarizes one indexing run.
type IndexStats struct {
	Indexed int // Vectors written
	Skipped int // Notes skipped (unreadable, or no embedding returned)
}

// Run embeds every note in the vault and saves the vectors, one batch
// per folder. An unreadable note is skipped with a warning; an
// embedding or storage failure aborts the run, keeping batches already
// written.
func (s *Indexer) Run(ctx context.Context) (IndexStats, error) {
	var stats IndexStats

	if s.writer == nil {
		return stats, fmt.Errorf("%w: no persistent vector store configured", domain.ErrConfiguration)
	}
	embedder := s.services.EmbeddingService()
	if embedder == nil {
		return stats, fmt.Errorf("%w: no live embedding provider configured", domain.ErrConfiguration)
	}

	folders, err := s.catalog.FolderProfiles(ctx)
	if err != nil {
		return stats, err
	}

	for _, folder := range folders {
		ids := make([]string, 0, len(folder.MemberIDs))
		texts := make([]string, 0, len(folder.MemberIDs))
		for _, id := range folder.MemberIDs {
			doc, err := s.catalog.DocumentProfile(ctx, id)
			if err != nil {
				s.logger.Warn("skipping unreadable note", "path", id, "error", err)
				stats.Skipped++
				continue
			}
			ids = append(ids, id)
			texts = append(texts, embeddingText(doc))
		}
		if len(ids) == 0 {
			continue
		}

		embeddings, err := embedder.Embed(ctx, texts)
		if err != nil {
			return stats, fmt.Errorf("failed to embed notes in %s: %w", folder.DisplayName(), err)
		}

		vectors := make(map[string][]float32, len(ids))
		for i, id := range ids {
			if i >= len(embeddings) || len(embeddings[i]) == 0 {
				s.logger.Warn("no embedding returned", "path", id)
				stats.Skipped++
				continue
			}
			vectors[id] = embeddings[i]
		}
		if len(vectors) == 0 {
			continue
		}

		if err := s.writer.SaveBatch(ctx, embedder.Model(), vectors); err != nil {
			return stats, fmt.Errorf("failed to save vectors for %s: %w", folder.DisplayName(), err)
		}
		stats.Indexed += len(vectors)
	}

	s.logger.Info("indexing finished",
		"indexed", stats.Indexed,
		"skipped", stats.Skipped,
		"model", embedder.Model(),
	)
	return stats, nil
}
