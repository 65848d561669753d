package collections

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	domain "github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/notify"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

// Remover removes games from collections and refreshes the cached view once
// the source confirms. Nothing is removed from the cache optimistically.
type Remover struct {
	provider providers.CollectionProvider
	loader   *Loader
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *metrics.Recorder
	timeout  time.Duration
}

// NewRemover wires a remover that refreshes through loader.
func NewRemover(provider providers.CollectionProvider, loader *Loader, logger *slog.Logger, recorder *metrics.Recorder) *Remover {
	timeout := defaultFetchTimeout
	if loader != nil {
		timeout = loader.opts.FetchTimeout
	}
	return &Remover{
		provider: provider,
		loader:   loader,
		logger:   logger,
		metrics:  recorder,
		timeout:  timeout,
	}
}

// Remove asks the source to drop slug from the collection at key. On success
// the notifier receives the source's message and the view is re-fetched; on
// failure the notifier receives the error message and the cache is untouched.
// Concurrent removals of the same game share one upstream call.
func (r *Remover) Remove(ctx context.Context, key domain.Key, slug string, notifier notify.Notifier) (domain.RemoveResponse, error) {
	if notifier == nil {
		notifier = notify.Discard
	}
	req := domain.RemoveRequest{UserID: key.UserID, CollectionID: key.CollectionID, Slug: slug}
	if err := req.Validate(); err != nil {
		return domain.RemoveResponse{}, err
	}
	logger := logging.FromContext(ctx, r.logger)

	flightKey := key.String() + "&slug=" + slug
	// The shared call is detached from whichever request started it so one
	// caller going away does not fail the others waiting on the same game.
	detached := context.WithoutCancel(ctx)
	res, err, _ := r.group.Do(flightKey, func() (any, error) {
		callCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		resp, err := r.provider.RemoveGame(callCtx, req)
		r.metrics.RecordRemoval(err)
		return resp, err
	})
	if err != nil {
		notifier.Notify(ctx, notify.Error(providers.Message(err)))
		logging.Error(logger, "remove game failed", err,
			logging.FieldUserID, key.UserID,
			logging.FieldCollectionID, key.CollectionID,
			logging.FieldSlug, slug,
		)
		return domain.RemoveResponse{}, err
	}

	resp, _ := res.(domain.RemoveResponse)
	notifier.Notify(ctx, notify.Success(resp.Message))
	logging.Info(logger, "game removed",
		logging.FieldUserID, key.UserID,
		logging.FieldCollectionID, key.CollectionID,
		logging.FieldSlug, slug,
	)

	if r.loader != nil {
		r.loader.Revalidate(ctx, key)
	}
	return resp, nil
}
