package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/game-collections-service/internal/config"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/providers/collectionsapi"
	"github.com/preston-bernstein/game-collections-service/internal/providers/fixture"
	"github.com/preston-bernstein/game-collections-service/internal/storage"
)

func selectProvider(ctx context.Context, cfg config.Config, logger *slog.Logger) (providers.CollectionProvider, error) {
	switch cfg.Provider {
	case config.ProviderFixture, "":
		return fixture.New(), nil
	case config.ProviderHTTP:
		return collectionsapi.NewClient(collectionsapi.Config{
			BaseURL: cfg.CollectionsAPI.BaseURL,
			APIKey:  cfg.CollectionsAPI.APIKey,
			Timeout: cfg.CollectionsAPI.Timeout,
		}), nil
	case config.ProviderDatabase:
		return storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New(), nil
	}
}
