package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/game-collections-service/internal/config"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

// providerFactory assembles the provider with the shared logging and metrics wrapper.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(ctx context.Context, cfg config.Config) (providers.CollectionProvider, error) {
	base, err := selectProvider(ctx, cfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s provider: %w", cfg.Provider, err)
	}
	return providers.NewInstrumentedProvider(base, f.logger, f.metrics, normalizeProviderName(cfg.Provider, base)), nil
}
