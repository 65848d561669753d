package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	app "github.com/preston-bernstein/game-collections-service/internal/app/collections"
	"github.com/preston-bernstein/game-collections-service/internal/cache"
	"github.com/preston-bernstein/game-collections-service/internal/config"
	httpserver "github.com/preston-bernstein/game-collections-service/internal/http"
	"github.com/preston-bernstein/game-collections-service/internal/http/handlers"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/session"
	"github.com/preston-bernstein/game-collections-service/internal/sweeper"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	provider      providers.CollectionProvider
	loader        *app.Loader
	httpServer    httpServer
	metricsServer httpServer
	sweeper       Sweeper
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured provider, cache and sweeper.
// It fails only when the provider cannot be built, e.g. an unreachable database.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	provider, err := newProviderFactory(logger, recorder).build(ctx, cfg)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}
	srv := assemble(cfg, logger, provider, recorder)
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	return srv, nil
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.CollectionProvider) *Server {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.CollectionProvider, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	provider = providers.NewInstrumentedProvider(provider, logger, recorder, normalizeProviderName(cfg.Provider, provider))

	srv := assemble(cfg, logger, provider, recorder)
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	return srv
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, provider providers.CollectionProvider, httpSrv httpServer, swp Sweeper) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		provider:   provider,
		httpServer: httpSrv,
		sweeper:    swp,
	}
}

func assemble(cfg config.Config, logger *slog.Logger, provider providers.CollectionProvider, recorder *metrics.Recorder) *Server {
	loader := app.NewLoader(provider, cache.NewStore(), logger, recorder, app.LoaderOptions{
		RenderWait:   cfg.Cache.RenderWait,
		FetchTimeout: cfg.Cache.FetchTimeout,
		MaxAge:       cfg.Cache.MaxAge,
	})
	remover := app.NewRemover(provider, loader, logger, recorder)
	swp := sweeper.New(loader.Store(), logger, recorder, cfg.Cache.SweepEvery, cfg.Cache.IdleTTL)

	handler := handlers.NewHandler(handlers.Deps{
		Loader:   loader,
		Remover:  remover,
		Provider: provider,
		Sessions: buildSessions(cfg, logger),
		Logger:   logger,
		StatusFn: swp.Status,
	})

	return &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    recorder,
		provider:   provider,
		loader:     loader,
		httpServer: buildHTTPServer(cfg, logger, recorder, handler),
		sweeper:    swp,
	}
}

func buildSessions(cfg config.Config, logger *slog.Logger) session.Provider {
	sessions := session.New(session.Config{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		Issuer:     cfg.Session.Issuer,
		DevUser:    cfg.Session.DevUser,
	})
	switch sessions.(type) {
	case session.Static:
		logging.Warn(logger, "SESSION_DEV_USER set, every request is signed in", logging.FieldUserID, cfg.Session.DevUser)
	case session.Anonymous:
		logging.Warn(logger, "no session secret configured, collection pages will render empty")
	}
	return sessions
}

func buildHTTPServer(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, handler *handlers.Handler) httpServer {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	router := httpserver.NewRouter(handler, httpserver.RouterConfig{
		Logger:         logger,
		Metrics:        recorder,
		AllowedOrigins: cfg.API.AllowedOrigins,
		APIToken:       cfg.API.Token,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the sweeper and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.sweeper.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.sweeper.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop sweeper", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if err := s.closeProvider(); err != nil && s.logger != nil {
		s.logger.Warn("failed to close provider", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

// closeProvider releases provider resources such as a database handle.
func (s *Server) closeProvider() error {
	p := s.provider
	for {
		u, ok := p.(interface {
			Unwrap() providers.CollectionProvider
		})
		if !ok {
			break
		}
		p = u.Unwrap()
	}
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
