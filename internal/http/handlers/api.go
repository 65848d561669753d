package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	domain "github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/http/requestutil"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/notify"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

const maxRequestBody = 1 << 20

// APIGetCollection serves GET /api/user/collection?uid=&collid= straight from
// the configured provider.
func (h *Handler) APIGetCollection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := domain.NewKey(q.Get("uid"), q.Get("collid"))
	if !key.Valid() || key.CollectionID == "" {
		writeError(w, r, http.StatusBadRequest, messageFor(domain.ErrInvalidRequest), h.logger)
		return
	}
	view, err := h.provider.FetchCollection(r.Context(), key)
	if err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "api fetch collection failed",
			logging.FieldError, err,
			logging.FieldUserID, key.UserID,
			logging.FieldCollectionID, key.CollectionID,
		)
		writeError(w, r, statusFor(err), messageFor(err), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewCollectionResponse(view), h.logger)
}

// APIRemoveGame serves POST /api/user/collection/remove. The removal goes
// through the remover so this instance's cached view is refreshed too.
func (h *Handler) APIRemoveGame(w http.ResponseWriter, r *http.Request) {
	var req domain.RemoveRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, messageFor(err), h.logger)
		return
	}

	resp, err := h.remover.Remove(r.Context(), req.Key(), req.Slug, notify.Discard)
	if err != nil {
		writeError(w, r, statusFor(err), messageFor(err), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// RequireAPIToken rejects requests without the shared bearer token. An empty
// token leaves the API open.
func RequireAPIToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(requestutil.BearerToken(r))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				writeError(w, r, http.StatusUnauthorized, notAuthorizedMessage, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "A collection and a game are required"
	case errors.Is(err, errNoSession):
		return notAuthorizedMessage
	default:
		return providers.Message(err)
	}
}
