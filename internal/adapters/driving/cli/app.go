package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/foldersense/internal/adapters/driven/ai"
	"github.com/custodia-labs/foldersense/internal/adapters/driven/bundle"
	"github.com/custodia-labs/foldersense/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/foldersense/internal/adapters/driven/redis"
	"github.com/custodia-labs/foldersense/internal/adapters/driven/storage/memory"
	vaultadapter "github.com/custodia-labs/foldersense/internal/adapters/driven/vault"
	"github.com/custodia-labs/foldersense/internal/config"
	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
	"github.com/custodia-labs/foldersense/internal/core/services"
	"github.com/custodia-labs/foldersense/internal/runtime"
	"github.com/custodia-labs/foldersense/internal/worker"
)

// buildApp wires the full service graph from configuration. Optional
// backends degrade gracefully: a missing embedding provider, bundle
// directory or database leaves the judgment-only path intact.
func buildApp(ctx context.Context, path string) error {
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg.Vault.Root == "" {
		return fmt.Errorf("%w: vault root not configured (set vault.root or FOLDERSENSE_VAULT)", domain.ErrConfiguration)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// AI services
	servicesRegistry := runtime.NewServices(domain.NewRuntimeConfig(cfg.Cache.Backend))
	cleanups = append(cleanups, func() { servicesRegistry.Close() })

	factory := ai.NewFactory()
	if embedder, err := factory.CreateEmbeddingService(cfg.EmbeddingSettings()); err != nil {
		logger.Warn("embedding service unavailable", "error", err)
	} else if embedder != nil {
		servicesRegistry.SetEmbeddingService(embedder)
	}
	if judge, err := factory.CreateJudgmentService(cfg.JudgmentSettings()); err != nil {
		cleanup()
		return err
	} else if judge != nil {
		servicesRegistry.SetJudgmentService(judge)
	}

	// Offline vector sources, bundle before postgres. The postgres
	// store doubles as the write target for the index command.
	var sources []driven.VectorSource
	var writer driven.VectorWriter
	if cfg.Sources.BundleDir != "" {
		src, err := bundle.New(bundle.Config{
			Dir:    cfg.Sources.BundleDir,
			Watch:  cfg.Sources.WatchBundle,
			Logger: logger,
		})
		if err != nil {
			cleanup()
			return err
		}
		cleanups = append(cleanups, func() { src.Close() })
		sources = append(sources, src)
	}
	if cfg.Sources.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Sources.DatabaseURL))
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanups = append(cleanups, func() { db.Close() })
		if err := db.InitSchema(ctx); err != nil {
			cleanup()
			return err
		}
		vectorStore := postgres.NewVectorStore(db)
		sources = append(sources, vectorStore)
		writer = vectorStore
	}

	// Vector/score cache
	var cache driven.VectorCache
	if cfg.Cache.Backend == "redis" {
		opts, err := goredis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			cleanup()
			return fmt.Errorf("%w: invalid redis url: %v", domain.ErrConfiguration, err)
		}
		client := goredis.NewClient(opts)
		cleanups = append(cleanups, func() { client.Close() })
		cache = redisadapter.NewVectorCache(client)
	} else {
		cache = memory.NewVectorCache()
	}

	// Vault
	vault, err := vaultadapter.New(vaultadapter.Config{
		Root:           cfg.Vault.Root,
		IgnorePatterns: cfg.Vault.IgnorePatterns,
	})
	if err != nil {
		cleanup()
		return err
	}

	// Core services
	store := services.NewEmbeddingStore(services.EmbeddingStoreConfig{
		Services: servicesRegistry,
		Sources:  sources,
		Logger:   logger,
	})
	profiles := services.NewProfileBuilder(services.ProfileBuilderConfig{
		Store:  store,
		Cache:  cache,
		Logger: logger,
	})
	catalog := services.NewCatalog(vault, logger)
	recommender := services.NewRecommender(services.RecommenderConfig{
		Services: servicesRegistry,
		Store:    store,
		Profiles: profiles,
		Logger:   logger,
	})

	recommenderService = recommender
	profileService = profiles
	catalogService = catalog
	indexerService = services.NewIndexer(services.IndexerConfig{
		Catalog:  catalog,
		Services: servicesRegistry,
		Writer:   writer,
		Logger:   logger,
	})
	batchWorker = worker.New(worker.Config{
		Recommender: recommender,
		Catalog:     catalog,
		Logger:      logger,
		Concurrency: cfg.Batch.Concurrency,
	})
	appCleanup = cleanup
	return nil
}
