package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	domain "github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/http/requestutil"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/notify"
	"github.com/preston-bernstein/game-collections-service/internal/web/views"
)

const notAuthorizedMessage = "Not authorized"

type removeResult struct {
	Message      string               `json:"message"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// CollectionPage renders the signed-in user's collection. htmx requests get
// only the collection section.
func (h *Handler) CollectionPage(w http.ResponseWriter, r *http.Request) {
	collectionID := pathParam(r, "collectionID")
	userID, signedIn := h.sessions.UserID(r)
	key := domain.NewKey(userID, collectionID)

	model := views.PageModel{
		CollectionID:   collectionID,
		SessionPresent: signedIn,
		State:          h.loader.Load(r.Context(), key),
		RefreshAfter:   h.refreshAfter,
	}
	if flash, ok := notify.PopFlash(w, r); ok {
		model.Flash = &flash
	}

	component := views.CollectionPage(model)
	if requestutil.IsHTMX(r) {
		component = views.CollectionView(model)
	}
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(component, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		logging.Error(loggerFromContext(r, h.logger), "render collection page failed", err,
			logging.FieldCollectionID, collectionID,
		)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, http.StatusInternalServerError, "render failed", h.logger)
		})
	})).ServeHTTP(w, r)
}

// RemoveGame removes a game and redirects back to the collection page with
// the outcome in a flash cookie. Callers asking for JSON get the outcome in
// the response body instead.
func (h *Handler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	collectionID := pathParam(r, "collectionID")
	slug := pathParam(r, "slug")
	wantsJSON := requestutil.WantsJSON(r) || requestutil.IsHTMX(r)

	collector := &notify.Collector{}
	var notifier notify.Notifier = collector
	if !wantsJSON {
		notifier = notify.Multi(collector, notify.NewFlashNotifier(w))
	}

	userID, signedIn := h.sessions.UserID(r)
	var (
		resp domain.RemoveResponse
		err  error
	)
	if signedIn {
		resp, err = h.remover.Remove(r.Context(), domain.NewKey(userID, collectionID), slug, notifier)
	} else {
		err = errNoSession
	}
	if _, notified := collector.Last(); err != nil && !notified {
		notifier.Notify(r.Context(), notify.Error(messageFor(err)))
	}

	if !wantsJSON {
		http.Redirect(w, r, domain.CollectionPath(collectionID), http.StatusSeeOther)
		return
	}
	body := removeResult{Message: resp.Message}
	if last, ok := collector.Last(); ok {
		body.Notification = &last
	}
	if err != nil {
		body.Message = messageFor(err)
		writeJSON(w, statusFor(err), body, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, body, h.logger)
}

var errNoSession = errors.New("no session")

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
