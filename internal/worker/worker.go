package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driving"
	"github.com/custodia-labs/foldersense/internal/core/services"
)

// DefaultConcurrency bounds the batch fan-out
const DefaultConcurrency = 4

// Worker scores batches of documents against the current folder
// profiles. One document's failure never aborts the batch; the
// failure rides out in that document's BatchItem.
type Worker struct {
	recommender driving.RecommenderService
	catalog     *services.Catalog
	logger      *slog.Logger
	concurrency int
}

// Config holds configuration for the batch worker.
type Config struct {
	Recommender driving.RecommenderService
	Catalog     *services.Catalog
	Logger      *slog.Logger
	Concurrency int // Number of documents scored at once
}

// New creates a batch worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Worker{
		recommender: cfg.Recommender,
		catalog:     cfg.Catalog,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run scores every document in paths against the vault's folders.
// Results come back in input order. A cancelled context stops the
// fan-out; documents not yet started report the context error.
func (w *Worker) Run(ctx context.Context, paths []string, opts driving.RecommendOptions) ([]driving.BatchItem, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	folders, err := w.catalog.FolderProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan folders: %w", err)
	}

	start := time.Now()
	w.logger.Info("batch starting",
		"documents", len(paths),
		"folders", len(folders),
		"concurrency", w.concurrency,
	)

	items := make([]driving.BatchItem, len(paths))
	sem := make(chan struct{}, w.concurrency)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				items[i] = driving.BatchItem{DocumentPath: path, Err: ctx.Err()}
				return
			}

			items[i] = w.score(ctx, path, folders, opts)
		}(i, path)
	}
	wg.Wait()

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	w.logger.Info("batch finished",
		"documents", len(paths),
		"failed", failed,
		"duration", time.Since(start),
	)

	return items, nil
}

// score handles one document end to end
func (w *Worker) score(ctx context.Context, path string, folders []*domain.FolderProfile, opts driving.RecommendOptions) driving.BatchItem {
	doc, err := w.catalog.DocumentProfile(ctx, path)
	if err != nil {
		w.logger.Warn("document profiling failed", "path", path, "error", err)
		return driving.BatchItem{DocumentPath: path, Err: err}
	}

	result, err := w.recommender.Recommend(ctx, doc, folders, opts)
	if err != nil {
		w.logger.Warn("recommendation failed", "path", path, "error", err)
		return driving.BatchItem{DocumentPath: path, Err: err}
	}

	return driving.BatchItem{DocumentPath: path, Result: result}
}
