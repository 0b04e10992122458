package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/intentmatch/internal/adapters/driven/ai"
	rediscache "github.com/custodia-labs/intentmatch/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/intentmatch/internal/adapters/driven/catalog/csvfile"
	"github.com/custodia-labs/intentmatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/intentmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/intentmatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
	"github.com/custodia-labs/intentmatch/internal/core/services"
	"github.com/custodia-labs/intentmatch/internal/logger"
)

// resolveDirs fills the default config and data directories.
func resolveDirs(opts cli.Options) (configDir, dataDir string, err error) {
	configDir = opts.ConfigDir
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".intentmatch")
	}
	dataDir = opts.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}
	return configDir, dataDir, nil
}

// bootstrap wires the adapters into the core services.
//
// Settings and the catalog store are always available. When the AI
// providers cannot be built the catalog can still be inspected, and match
// reports that no provider is configured.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Bootstrap")

	configDir, dataDir, err := resolveDirs(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("config dir: %s, data dir: %s", configDir, dataDir)

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	promptStore, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var closers []func() error

	// An unusable data directory degrades to an in-memory store.
	var catalogStore driven.CatalogStore
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("catalog store unavailable, catalogs will not persist: %v", err)
		catalogStore = memory.NewCatalogStore()
	} else {
		logger.Debug("catalog store: %s", store.Path())
		closers = append(closers, store.Close)
		catalogStore = store.CatalogStore()
	}

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	reader := csvfile.NewReader(settings.Catalog.Delimiter)
	catalogCfg := catalogConfig(settings)

	aiResult, err := ai.Initialise(settings, promptStore)
	if err != nil {
		logger.Warn("AI services unavailable: %v", err)
		return &cli.Services{
			Catalog:  services.NewCatalogService(reader, catalogStore, nil, catalogCfg),
			Settings: settingsService,
			Close:    closeAll,
		}, nil
	}
	closers = append(closers, func() error {
		aiResult.Close()
		return nil
	})

	cache, closeCache, err := newEmbeddingCache(ctx, settings.Cache, store)
	if err != nil {
		logger.Warn("embedding cache disabled: %v", err)
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	embedder := services.NewCachedEmbeddingService(aiResult.EmbeddingService, cache)
	catalogs := services.NewCatalogService(reader, catalogStore, embedder, catalogCfg)
	resolver := services.NewIntentResolver(aiResult.Classifier, settings.Classifier.ConfidenceFloor)
	matcher := services.NewMatchService(catalogs, resolver, embedder, services.MatchConfig{
		Mode:         settings.Match.Mode,
		Taxonomy:     settings.Match.Taxonomy,
		ModelTimeout: settings.Match.ModelTimeout,
	})

	logger.Info("embedding: %s/%s, classifier: %s, mode: %s, cache: %s",
		settings.Embedding.Provider, settings.Embedding.Model,
		settings.Classifier.Strategy, settings.Match.Mode, settings.Cache.Backend)

	return &cli.Services{
		Catalog:  catalogs,
		Match:    matcher,
		Settings: settingsService,
		Close:    closeAll,
	}, nil
}

func catalogConfig(settings *domain.AppSettings) services.CatalogConfig {
	return services.CatalogConfig{
		Normalise: services.NormaliseOptions{
			DropColumns:      settings.Catalog.DropColumns,
			DefaultPromotion: settings.Catalog.DefaultPromotion,
		},
		Batch: services.BatchEmbedderConfig{
			BatchSize:         settings.Catalog.BatchSize,
			Workers:           settings.Catalog.Workers,
			RequestsPerSecond: settings.Embedding.RequestsPerSecond,
		},
	}
}

// newEmbeddingCache builds the configured cache backend.
// The sqlite backend falls back to memory when store is nil.
// The returned close function may be nil.
func newEmbeddingCache(
	ctx context.Context,
	cfg domain.CacheSettings,
	store *sqlite.Store,
) (driven.EmbeddingCache, func() error, error) {
	switch cfg.Backend {
	case domain.CacheNone:
		return nil, nil, nil
	case domain.CacheMemory:
		return memory.NewEmbeddingCache(cfg.TTL), nil, nil
	case domain.CacheRedis:
		c, err := rediscache.New(ctx, rediscache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case domain.CacheSQLite, "":
		if store == nil {
			return memory.NewEmbeddingCache(cfg.TTL), nil, nil
		}
		return store.EmbeddingCache(cfg.TTL), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
