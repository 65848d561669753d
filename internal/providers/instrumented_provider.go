package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
)

// instrumentedProvider wraps a CollectionProvider with per-call logging and metrics.
// Every call is attempted exactly once; failures are reported, never retried.
type instrumentedProvider struct {
	inner   CollectionProvider
	logger  *slog.Logger
	metrics *metrics.Recorder
	name    string
	now     func() time.Time
}

// NewInstrumentedProvider wraps the given provider. A nil recorder disables metrics.
func NewInstrumentedProvider(inner CollectionProvider, logger *slog.Logger, recorder *metrics.Recorder, name string) CollectionProvider {
	if name == "" {
		name = "provider"
	}
	return &instrumentedProvider{
		inner:   inner,
		logger:  logger,
		metrics: recorder,
		name:    name,
		now:     time.Now,
	}
}

func (p *instrumentedProvider) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	if p.inner == nil {
		return collections.View{}, ErrProviderUnavailable
	}
	start := p.now()
	view, err := p.inner.FetchCollection(ctx, key)
	p.observe(ctx, metrics.OpFetchCollection, start, err,
		slog.String(logging.FieldCollectionID, key.CollectionID),
		slog.Int(logging.FieldCount, len(view.Games)),
	)
	return view, err
}

func (p *instrumentedProvider) RemoveGame(ctx context.Context, req collections.RemoveRequest) (collections.RemoveResponse, error) {
	if p.inner == nil {
		return collections.RemoveResponse{}, ErrProviderUnavailable
	}
	start := p.now()
	resp, err := p.inner.RemoveGame(ctx, req)
	p.observe(ctx, metrics.OpRemoveGame, start, err,
		slog.String(logging.FieldCollectionID, req.CollectionID),
		slog.String(logging.FieldSlug, req.Slug),
	)
	return resp, err
}

// Ping forwards to the wrapped provider when it supports readiness checks.
func (p *instrumentedProvider) Ping(ctx context.Context) error {
	if pinger, ok := p.inner.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Unwrap exposes the wrapped provider, e.g. so the server can close a database.
func (p *instrumentedProvider) Unwrap() CollectionProvider {
	return p.inner
}

func (p *instrumentedProvider) observe(ctx context.Context, op string, start time.Time, err error, attrs ...any) {
	duration := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(p.name, op, duration, err)

	attrs = append(attrs, slog.Int64(logging.FieldDurationMS, duration.Milliseconds()))
	if err != nil {
		attrs = append(attrs, logging.FieldError, err)
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.name, op, "provider call failed", attrs...)
		return
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, p.name, op, "provider call complete", attrs...)
}
