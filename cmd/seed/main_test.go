package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers/fixture"
	"github.com/preston-bernstein/game-collections-service/internal/session"
	"github.com/preston-bernstein/game-collections-service/internal/storage"
)

func TestRunSeedsOnceAndPrintsToken(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "seed.db")
	opts := options{
		Driver:   storage.DriverSQLite,
		DSN:      dsn,
		UserID:   fixture.DemoUserID,
		Secret:   "s3cret",
		TokenTTL: time.Hour,
	}

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "seeded favorites (3 games)") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	idx := strings.Index(out.String(), "session token for demo-user: ")
	if idx < 0 {
		t.Fatalf("expected token in output: %s", out.String())
	}
	token := strings.TrimSpace(out.String()[idx+len("session token for demo-user: "):])
	user, err := session.NewJWTProvider(session.Config{Secret: "s3cret"}).Verify(token)
	if err != nil || user != fixture.DemoUserID {
		t.Fatalf("expected verifiable token, got user=%q err=%v", user, err)
	}

	out.Reset()
	opts.Secret = ""
	if err := run(context.Background(), opts, &out); err != nil {
		t.Fatalf("unexpected error on reseed: %v", err)
	}
	if !strings.Contains(out.String(), "skipped favorites, already present") {
		t.Fatalf("expected reseed to skip, got %s", out.String())
	}

	store, err := storage.Open(context.Background(), storage.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	view, err := store.FetchCollection(context.Background(), collections.NewKey(fixture.DemoUserID, "favorites"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(view.Games) != 3 || view.Games[0].Slug != "halo" {
		t.Fatalf("expected seeded games in order, got %+v", view.Games)
	}
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	if err := run(context.Background(), options{Driver: "oracle", DSN: "x"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
