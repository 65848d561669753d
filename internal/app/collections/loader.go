package collections

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/game-collections-service/internal/cache"
	domain "github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

const (
	defaultRenderWait   = 2 * time.Second
	defaultFetchTimeout = 15 * time.Second
)

// LoaderOptions tunes how long callers wait and when cached results expire.
type LoaderOptions struct {
	// RenderWait bounds how long Load blocks on an in-flight fetch.
	RenderWait time.Duration
	// FetchTimeout bounds a single upstream fetch.
	FetchTimeout time.Duration
	// MaxAge expires successful results; zero keeps them until invalidated.
	MaxAge time.Duration
}

// Loader serves collection views from the keyed cache, fetching through the
// provider on a miss. There is no background or focus-driven revalidation:
// data is only re-fetched on a miss, after invalidation, or after an error.
type Loader struct {
	provider providers.CollectionProvider
	store    *cache.Store
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *metrics.Recorder
	opts     LoaderOptions
	now      func() time.Time
}

type fetchResult struct {
	state   cache.State
	applied bool
}

// NewLoader wires a loader. Zero durations fall back to defaults.
func NewLoader(provider providers.CollectionProvider, store *cache.Store, logger *slog.Logger, recorder *metrics.Recorder, opts LoaderOptions) *Loader {
	if opts.RenderWait <= 0 {
		opts.RenderWait = defaultRenderWait
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if store == nil {
		store = cache.NewStore()
	}
	return &Loader{
		provider: provider,
		store:    store,
		logger:   logger,
		metrics:  recorder,
		opts:     opts,
		now:      time.Now,
	}
}

// Store exposes the cache backing the loader.
func (l *Loader) Store() *cache.Store {
	return l.store
}

// Load returns the state for key. Without a user the loader is disabled and
// returns Idle without touching the provider.
func (l *Loader) Load(ctx context.Context, key domain.Key) cache.State {
	if !key.Valid() {
		return cache.Idle()
	}
	if st, ok := l.store.Get(key); ok && st.Fresh(l.opts.MaxAge, l.now()) {
		l.metrics.RecordCacheLookup(true)
		return st
	}
	l.metrics.RecordCacheLookup(false)
	return l.fetch(ctx, key)
}

// Revalidate discards the cached view for key and loads it again.
func (l *Loader) Revalidate(ctx context.Context, key domain.Key) cache.State {
	if !key.Valid() {
		return cache.Idle()
	}
	l.store.Invalidate(key)
	return l.fetch(ctx, key)
}

func (l *Loader) fetch(ctx context.Context, key domain.Key) cache.State {
	gen := l.store.Begin(key)
	flightKey := key.String() + "#" + strconv.FormatUint(gen, 10)
	// The fetch outlives the request that started it so other waiters and
	// the cache entry are unaffected if this caller goes away.
	detached := context.WithoutCancel(ctx)

	ch := l.group.DoChan(flightKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(detached, l.opts.FetchTimeout)
		defer cancel()

		view, err := l.provider.FetchCollection(fetchCtx, key)
		st := cache.Succeeded(view, l.now())
		if err != nil {
			st = cache.Failed(err)
			logging.Warn(logging.FromContext(ctx, l.logger), "collection load failed",
				logging.FieldUserID, key.UserID,
				logging.FieldCollectionID, key.CollectionID,
				logging.FieldError, err,
			)
		}
		applied := l.store.Complete(key, gen, st)
		if !applied {
			logging.Debug(l.logger, "dropped superseded collection result",
				logging.FieldCollectionID, key.CollectionID,
			)
		}
		return fetchResult{state: st, applied: applied}, nil
	})

	timer := time.NewTimer(l.opts.RenderWait)
	defer timer.Stop()

	select {
	case res := <-ch:
		if out, ok := res.Val.(fetchResult); ok && out.applied {
			return out.state
		}
		return l.current(key)
	case <-timer.C:
		return l.pending(key)
	case <-ctx.Done():
		return l.pending(key)
	}
}

// current returns whatever the cache holds now, used when our own result
// was superseded.
func (l *Loader) current(key domain.Key) cache.State {
	st, ok := l.store.Get(key)
	if !ok || st.Status == cache.StatusIdle || st.Status == cache.StatusLoading {
		return l.pending(key)
	}
	return st
}

// pending is what a caller sees while a fetch is still running: the last
// view marked stale when there is one, otherwise Loading.
func (l *Loader) pending(key domain.Key) cache.State {
	st, ok := l.store.Get(key)
	if ok && st.HasView() {
		return cache.State{
			Status:    cache.StatusSuccess,
			View:      st.View,
			FetchedAt: st.FetchedAt,
			Stale:     true,
		}
	}
	return cache.Loading()
}
