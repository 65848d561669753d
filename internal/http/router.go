package http

import (
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/game-collections-service/internal/http/handlers"
	"github.com/preston-bernstein/game-collections-service/internal/http/middleware"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/web/static"
)

// RouterConfig carries the cross-cutting settings of the route tree.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	AllowedOrigins []string
	APIToken       string
}

// NewRouter registers the page, API and static routes on a chi router.
func NewRouter(h *handlers.Handler, cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(func(next nethttp.Handler) nethttp.Handler {
		return middleware.LoggingMiddleware(cfg.Logger, cfg.Metrics, next)
	})
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Get("/collections/{collectionID}", h.CollectionPage)
	r.With(middleware.SameOrigin).Post("/collections/{collectionID}/games/{slug}/remove", h.RemoveGame)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Use(handlers.RequireAPIToken(cfg.APIToken))
		r.Get("/user/collection", h.APIGetCollection)
		r.Post("/user/collection/remove", h.APIRemoveGame)
	})

	fileServer(r, "/static", nethttp.FS(static.FS()))
	return r
}

// fileServer serves root under path, redirecting the bare prefix to path/.
func fileServer(r chi.Router, path string, root nethttp.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("fileServer does not permit URL parameters")
	}
	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, nethttp.RedirectHandler(path+"/", nethttp.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w nethttp.ResponseWriter, req *nethttp.Request) {
		rctx := chi.RouteContext(req.Context())
		prefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		nethttp.StripPrefix(prefix, nethttp.FileServer(root)).ServeHTTP(w, req)
	})
}
