// Command seed loads the demo collections into the SQL store so the database
// provider has something to serve.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/config"
	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/providers/fixture"
	"github.com/preston-bernstein/game-collections-service/internal/session"
	"github.com/preston-bernstein/game-collections-service/internal/storage"
)

type options struct {
	Driver   string
	DSN      string
	UserID   string
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

func main() {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := options{Secret: cfg.Session.Secret, Issuer: cfg.Session.Issuer}
	flag.StringVar(&opts.Driver, "driver", cfg.Storage.Driver, "database driver (sqlite3 or pgx)")
	flag.StringVar(&opts.DSN, "dsn", cfg.Storage.DSN, "database DSN")
	flag.StringVar(&opts.UserID, "user", fixture.DemoUserID, "user that owns the seeded collections")
	flag.DurationVar(&opts.TokenTTL, "token-ttl", 24*time.Hour, "lifetime of the printed session token")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	store, err := storage.Open(ctx, opts.Driver, opts.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, c := range fixture.DemoCollections() {
		seeded, err := seedCollection(ctx, store, opts.UserID, c)
		if err != nil {
			return fmt.Errorf("seed %s: %w", c.ID, err)
		}
		if seeded {
			fmt.Fprintf(out, "seeded %s (%d games)\n", c.ID, len(c.Games))
		} else {
			fmt.Fprintf(out, "skipped %s, already present\n", c.ID)
		}
	}

	if opts.Secret == "" {
		return nil
	}
	token, err := session.NewJWTProvider(session.Config{Secret: opts.Secret, Issuer: opts.Issuer}).Issue(opts.UserID, opts.TokenTTL)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	fmt.Fprintf(out, "session token for %s: %s\n", opts.UserID, token)
	return nil
}

func seedCollection(ctx context.Context, store *storage.Store, userID string, c fixture.Collection) (bool, error) {
	_, err := store.FetchCollection(ctx, collections.NewKey(userID, c.ID))
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, providers.ErrNotFound):
		return false, err
	}

	id, err := store.CreateCollection(ctx, storage.NewCollection{ID: c.ID, UserID: userID, Name: c.Name})
	if err != nil {
		return false, err
	}
	for _, g := range c.Games {
		if err := store.AddGame(ctx, id, g); err != nil {
			return false, err
		}
	}
	return true, nil
}
