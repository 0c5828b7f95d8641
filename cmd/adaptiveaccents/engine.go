package main

import (
	"fmt"

	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/accent"
	"karolbroda.com/adaptiveaccents/internal/album"
	"karolbroda.com/adaptiveaccents/internal/appleapi"
	"karolbroda.com/adaptiveaccents/internal/artwork"
	"karolbroda.com/adaptiveaccents/internal/cache"
	"karolbroda.com/adaptiveaccents/internal/config"
	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/settings"
)

// engine is the pipeline wiring shared by the daemon and the one-shot
// commands.
type engine struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *settings.Store
	api      *appleapi.Client
	fetcher  *album.Fetcher
	loader   *artwork.Loader
	palettes *cache.DiskCache
	selector *accent.Selector
}

func newEngine(cfg *config.Config, logger *zap.Logger) (*engine, error) {
	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	if cfg.DeveloperToken == "" {
		logger.Warn("[main][engine] APPLE_MUSIC_DEVELOPER_TOKEN is not set, catalog requests will fail")
	}

	api := appleapi.NewClient(appleapi.ClientOptions{
		BaseURL:        cfg.APIBaseURL,
		DeveloperToken: cfg.DeveloperToken,
		UserToken:      cfg.UserToken,
		Logger:         logger,
	})

	loader := artwork.NewLoader(nil)

	palettes, err := cache.Open(cfg.CacheDir)
	if err != nil {
		logger.Warn("[main][engine] palette cache unavailable, keeping palettes in memory", zap.Error(err))
		palettes = cache.NewMemory()
	}
	extractor := cache.NewExtractor(artwork.NewRemote(loader), palettes, logger)

	appearance := host.NewStaticAppearance(cfg.Appearance, cfg.Immersive)

	return &engine{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		api:      api,
		fetcher:  album.NewFetcher(api, store.Storefront(), logger),
		loader:   loader,
		palettes: palettes,
		selector: accent.NewSelector(appearance, extractor, logger),
	}, nil
}
