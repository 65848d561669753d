package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	app "github.com/preston-bernstein/game-collections-service/internal/app/collections"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/session"
	"github.com/preston-bernstein/game-collections-service/internal/sweeper"
)

const readyPingTimeout = 2 * time.Second

// Deps are the collaborators a Handler serves requests with.
type Deps struct {
	Loader   *app.Loader
	Remover  *app.Remover
	Provider providers.CollectionProvider
	Sessions session.Provider
	Logger   *slog.Logger
	// StatusFn reports sweeper health for readiness checks.
	StatusFn func() sweeper.Status
	// RefreshAfter is how soon a loading page asks the browser to reload.
	RefreshAfter time.Duration
}

// Handler wires HTTP routes to the collection loader and remover.
type Handler struct {
	loader       *app.Loader
	remover      *app.Remover
	provider     providers.CollectionProvider
	sessions     session.Provider
	logger       *slog.Logger
	statusFn     func() sweeper.Status
	refreshAfter time.Duration
}

// NewHandler constructs a Handler with defaults.
func NewHandler(d Deps) *Handler {
	provider := d.Provider
	if provider == nil {
		provider = providers.NewInstrumentedProvider(nil, d.Logger, nil, "")
	}
	sessions := d.Sessions
	if sessions == nil {
		sessions = session.Anonymous{}
	}
	loader := d.Loader
	if loader == nil {
		loader = app.NewLoader(provider, nil, d.Logger, nil, app.LoaderOptions{})
	}
	remover := d.Remover
	if remover == nil {
		remover = app.NewRemover(provider, loader, d.Logger, nil)
	}
	refresh := d.RefreshAfter
	if refresh <= 0 {
		refresh = time.Second
	}
	return &Handler{
		loader:       loader,
		remover:      remover,
		provider:     provider,
		sessions:     sessions,
		logger:       d.Logger,
		statusFn:     d.StatusFn,
		refreshAfter: refresh,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes). The
// collection source is pinged when it supports it.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn != nil {
		if status := h.statusFn(); !status.IsRunning() {
			writeError(w, r, http.StatusServiceUnavailable, status.LastError, h.logger)
			return
		}
	}
	if pinger, ok := h.provider.(providers.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logging.Warn(loggerFromContext(r, h.logger), "readiness ping failed", logging.FieldError, err)
			writeError(w, r, http.StatusServiceUnavailable, providers.ErrProviderUnavailable.Error(), h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}
