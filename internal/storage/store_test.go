package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collections.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedFavorites(t *testing.T, s *Store) string {
	t.Helper()
	ctx := context.Background()
	id, err := s.CreateCollection(ctx, NewCollection{UserID: "u1", Name: "Favorites"})
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}
	for _, g := range []collections.GameSummary{
		{Slug: "halo", Name: "Halo", CoverURL: "/halo.jpg"},
		{Slug: "hades", Name: "Hades"},
		{Slug: "celeste", Name: "Celeste"},
	} {
		if err := s.AddGame(ctx, id, g); err != nil {
			t.Fatalf("add game %s: %v", g.Slug, err)
		}
	}
	return id
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "x"); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.db")
	first, err := Open(context.Background(), DriverSQLite, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := first.CreateCollection(context.Background(), NewCollection{ID: "keep", UserID: "u1", Name: "Keep"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = first.Close()

	second, err := Open(context.Background(), DriverSQLite, path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()
	view, err := second.FetchCollection(context.Background(), collections.NewKey("u1", "keep"))
	if err != nil {
		t.Fatalf("fetch after reopen: %v", err)
	}
	if view.CollectionName != "Keep" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestFetchCollectionPreservesInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	id := seedFavorites(t, s)

	view, err := s.FetchCollection(context.Background(), collections.NewKey("u1", id))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if view.CollectionName != "Favorites" {
		t.Fatalf("expected Favorites, got %q", view.CollectionName)
	}
	want := []string{"halo", "hades", "celeste"}
	if len(view.Games) != len(want) {
		t.Fatalf("expected %d games, got %d", len(want), len(view.Games))
	}
	for i, slug := range want {
		if view.Games[i].Slug != slug {
			t.Fatalf("position %d: expected %s, got %s", i, slug, view.Games[i].Slug)
		}
	}
	if view.Games[0].CoverURL != "/halo.jpg" || view.Games[1].CoverURL != "" {
		t.Fatalf("unexpected covers %+v", view.Games)
	}
}

func TestFetchEmptyCollectionReturnsNonNilGames(t *testing.T) {
	s := openTestStore(t)
	id, err := s.CreateCollection(context.Background(), NewCollection{UserID: "u1", Name: "Backlog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	view, err := s.FetchCollection(context.Background(), collections.NewKey("u1", id))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if view.Games == nil || len(view.Games) != 0 {
		t.Fatalf("expected empty non-nil games, got %#v", view.Games)
	}
}

func TestFetchCollectionScopedToOwner(t *testing.T) {
	s := openTestStore(t)
	id := seedFavorites(t, s)

	_, err := s.FetchCollection(context.Background(), collections.NewKey("someone-else", id))
	if !errors.Is(err, ErrCollectionNotFound) || !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected collection not found, got %v", err)
	}
	if providers.Message(err) != "Collection not found" {
		t.Fatalf("unexpected message %q", providers.Message(err))
	}
}

func TestRemoveGameDeletesAndReportsNames(t *testing.T) {
	s := openTestStore(t)
	id := seedFavorites(t, s)
	ctx := context.Background()

	resp, err := s.RemoveGame(ctx, collections.RemoveRequest{UserID: "u1", CollectionID: id, Slug: "hades"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.Message != "Hades removed from Favorites" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	view, err := s.FetchCollection(ctx, collections.NewKey("u1", id))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if view.Contains("hades") || len(view.Games) != 2 {
		t.Fatalf("expected hades removed, got %+v", view.Games)
	}
}

func TestRemoveMissingGameFails(t *testing.T) {
	s := openTestStore(t)
	id := seedFavorites(t, s)

	_, err := s.RemoveGame(context.Background(), collections.RemoveRequest{UserID: "u1", CollectionID: id, Slug: "zelda"})
	if !errors.Is(err, ErrGameNotInCollection) {
		t.Fatalf("expected ErrGameNotInCollection, got %v", err)
	}
	if providers.Message(err) != "Game is not in this collection" {
		t.Fatalf("unexpected message %q", providers.Message(err))
	}
}

func TestRemoveSameGameTwiceReportsSecondAsMissing(t *testing.T) {
	s := openTestStore(t)
	id := seedFavorites(t, s)
	ctx := context.Background()
	req := collections.RemoveRequest{UserID: "u1", CollectionID: id, Slug: "halo"}

	if _, err := s.RemoveGame(ctx, req); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	_, err := s.RemoveGame(ctx, req)
	if !errors.Is(err, ErrGameNotInCollection) {
		t.Fatalf("expected second remove to report ErrGameNotInCollection, got %v", err)
	}

	view, err := s.FetchCollection(ctx, collections.NewKey("u1", id))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(view.Games) != 2 || view.Games[0].Slug != "hades" {
		t.Fatalf("expected remaining games untouched, got %+v", view.Games)
	}
}

func TestRemoveRejectsInvalidRequest(t *testing.T) {
	s := openTestStore(t)
	_, err := s.RemoveGame(context.Background(), collections.RemoveRequest{UserID: "u1", CollectionID: "c1"})
	if !errors.Is(err, collections.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestCreateCollectionUsesProvidedIDAndClock(t *testing.T) {
	s := openTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	id, err := s.CreateCollection(context.Background(), NewCollection{ID: "favorites", UserID: "u1", Name: "Favorites"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "favorites" {
		t.Fatalf("expected provided id, got %s", id)
	}
	if _, err := s.CreateCollection(context.Background(), NewCollection{UserID: "", Name: "x"}); !errors.Is(err, collections.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for missing user, got %v", err)
	}
}

func TestPingAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	_ = s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error after close")
	}
}
