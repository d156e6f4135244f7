package services

import (
	"context"
	"fmt"
	"time"

	"image-crawler-go/pkg/config"
	"image-crawler-go/pkg/db"
	"image-crawler-go/pkg/keystore"
	"image-crawler-go/pkg/progress"
	"image-crawler-go/pkg/scraper"
)

// Credential store backends selectable with store.backend
const (
	BackendConfig   = "config"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ProgressConfig converts the [progress] section
func ProgressConfig(cfg *config.Config) progress.Config {
	return progress.Config{
		TickInterval: time.Duration(cfg.Progress.TickMillis) * time.Millisecond,
		Step:         cfg.Progress.Step,
		Ceiling:      cfg.Progress.Ceiling,
		ResetDelay:   time.Duration(cfg.Progress.ResetDelayMillis) * time.Millisecond,
	}
}

// SimulatedConfig converts the [crawl] section
func SimulatedConfig(cfg *config.Config) scraper.SimulatedConfig {
	return scraper.SimulatedConfig{
		Delay:     cfg.CrawlDelay(),
		ItemCount: cfg.Crawl.ItemCount,
		ImageBase: cfg.Crawl.ImageBase,
	}
}

// OpenStore returns the configured credential store and a func that
// releases it. configPath is only used by the config backend; empty means
// the default location.
func OpenStore(ctx context.Context, cfg *config.Config, configPath string) (keystore.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case BackendMemory:
		return keystore.NewMemory(), noop, nil

	case BackendPostgres:
		database, err := db.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, noop, err
		}
		return keystore.NewPostgres(database), database.Close, nil

	case BackendConfig, "":
		store, err := keystore.NewConfigStore(configPath, cfg)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
