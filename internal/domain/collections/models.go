package collections

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidRequest is returned when a key or slug is missing.
var ErrInvalidRequest = errors.New("invalid collection request")

// Key identifies one user's collection. It is the cache key for fetched views.
type Key struct {
	UserID       string
	CollectionID string
}

// NewKey trims both identifiers.
func NewKey(userID, collectionID string) Key {
	return Key{
		UserID:       strings.TrimSpace(userID),
		CollectionID: strings.TrimSpace(collectionID),
	}
}

// Valid reports whether the key can be fetched. A key without a user
// means no session has been resolved yet.
func (k Key) Valid() bool {
	return k.UserID != "" && k.CollectionID != ""
}

func (k Key) String() string {
	q := url.Values{}
	q.Set("uid", k.UserID)
	q.Set("collid", k.CollectionID)
	return q.Encode()
}

// GameSummary is the minimal display record for a game.
type GameSummary struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	CoverURL string `json:"coverUrl,omitempty"`
}

// View is one fetched snapshot of a collection. Games keep source order.
type View struct {
	CollectionName string
	Games          []GameSummary
}

// Contains reports whether a game with the slug is part of the view.
func (v View) Contains(slug string) bool {
	for _, g := range v.Games {
		if g.Slug == slug {
			return true
		}
	}
	return false
}

// CollectionResult is the inner payload of a collection fetch.
type CollectionResult struct {
	Collection string        `json:"collection"`
	Games      []GameSummary `json:"games"`
}

// CollectionResponse is the payload returned by the collection endpoint.
type CollectionResponse struct {
	Result CollectionResult `json:"result"`
}

// NewCollectionResponse wraps a view in the wire envelope.
func NewCollectionResponse(v View) CollectionResponse {
	games := v.Games
	if games == nil {
		games = []GameSummary{}
	}
	return CollectionResponse{
		Result: CollectionResult{
			Collection: v.CollectionName,
			Games:      games,
		},
	}
}

// View converts the wire envelope into a View.
func (r CollectionResponse) View() View {
	return View{
		CollectionName: r.Result.Collection,
		Games:          r.Result.Games,
	}
}

// RemoveRequest asks the source to drop a game from a collection.
type RemoveRequest struct {
	UserID       string `json:"userId"`
	CollectionID string `json:"collectionId"`
	Slug         string `json:"slug"`
}

// Key returns the collection key the request targets.
func (r RemoveRequest) Key() Key {
	return NewKey(r.UserID, r.CollectionID)
}

// Validate checks that every identifier is present.
func (r RemoveRequest) Validate() error {
	if !r.Key().Valid() || strings.TrimSpace(r.Slug) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// RemoveResponse carries the server supplied confirmation message.
type RemoveResponse struct {
	Message string `json:"message"`
}

// GamePath is the detail page for a game.
func GamePath(slug string) string {
	return "/game/" + url.PathEscape(slug)
}

// CollectionPath is the page rendering a collection.
func CollectionPath(collectionID string) string {
	return "/collections/" + url.PathEscape(collectionID)
}

// RemovePath is the form target removing a game from a collection.
func RemovePath(collectionID, slug string) string {
	return CollectionPath(collectionID) + "/games/" + url.PathEscape(slug) + "/remove"
}
