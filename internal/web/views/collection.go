package views

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/preston-bernstein/game-collections-service/internal/cache"
	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/notify"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

//go:generate templ generate

const (
	DefaultHeading = "Collection"
	LoadingText    = "Loading..."
	EmptyText      = "Go search and add games in this collection."
	ErrorFallback  = "Something went wrong loading this collection."
	CoverFallback  = "/static/cover-missing.svg"
	StylesheetPath = "/static/style.css"
)

// PageModel is everything the collection page needs to render.
type PageModel struct {
	CollectionID   string
	SessionPresent bool
	State          cache.State
	Flash          *notify.Notification
	// RefreshAfter asks the browser to reload while the view is loading.
	RefreshAfter time.Duration
}

// Phase returns the view the model renders as.
func (m PageModel) Phase() Phase {
	return Classify(m.SessionPresent, m.State)
}

// Heading is the collection name when known.
func (m PageModel) Heading() string {
	if m.SessionPresent && m.State.HasView() && m.State.View.CollectionName != "" {
		return m.State.View.CollectionName
	}
	return DefaultHeading
}

func (m PageModel) refreshes() bool {
	return m.Phase() == PhaseLoading && m.RefreshAfter > 0
}

// refreshSeconds rounds RefreshAfter to whole seconds, never below one.
func (m PageModel) refreshSeconds() string {
	secs := int(m.RefreshAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func coverURL(g collections.GameSummary) string {
	if g.CoverURL == "" {
		return CoverFallback
	}
	return string(templ.URL(g.CoverURL))
}

func toastRole(n notify.Notification) string {
	if n.Kind == notify.KindError {
		return "alert"
	}
	return "status"
}

func errorMessage(err error) string {
	if msg := providers.Message(err); msg != "" {
		return msg
	}
	return ErrorFallback
}
