package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/config"
	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Service:     "game-collections-service",
		Version:     appVersion,
		Environment: cfg.Log.Environment,
		SentryDSN:   cfg.Log.SentryDSN,
	})
	defer logging.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server setup failed", err)
		return
	}
	srv.Run(ctx, stop)
}
