package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/session"
	"github.com/preston-bernstein/game-collections-service/internal/sweeper"
	"github.com/preston-bernstein/game-collections-service/internal/testutil"
)

func newTestHandler(p providers.CollectionProvider, sessions session.Provider) *Handler {
	logger, _ := testutil.NewBufferLogger()
	return NewHandler(Deps{Provider: p, Sessions: sessions, Logger: logger})
}

// withParams attaches chi URL params so handlers can be called directly.
func withParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type pingingProvider struct {
	testutil.StubProvider
	err   error
	pings int
}

func (p *pingingProvider) Ping(ctx context.Context) error {
	_ = ctx
	p.pings++
	return p.err
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&testutil.StubProvider{}, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newTestHandler(&testutil.StubProvider{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp errorBody
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Message != "shutting down" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestReadyWithoutSweeperOrPinger(t *testing.T) {
	h := newTestHandler(&testutil.StubProvider{}, nil)
	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertBodyContains(t, rr, `"ready"`)
}

func TestReadyReportsSweeperFailure(t *testing.T) {
	stub := &testutil.StubSweeper{StatusVal: sweeper.Status{LastError: "scheduler failed"}}
	h := NewHandler(Deps{Provider: &testutil.StubProvider{}, StatusFn: stub.Status})

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	testutil.AssertBodyContains(t, rr, "scheduler failed")

	stub.StatusVal = sweeper.Status{Runs: 1}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyPingsProvider(t *testing.T) {
	p := &pingingProvider{err: errors.New("db down")}
	h := newTestHandler(p, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	testutil.AssertBodyContains(t, rr, providers.ErrProviderUnavailable.Error())

	p.err = nil
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if p.pings != 2 {
		t.Fatalf("expected two pings, got %d", p.pings)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(&testutil.StubProvider{}, nil)

	rr := testutil.Serve(http.HandlerFunc(h.NotFound), http.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.Serve(http.HandlerFunc(h.MethodNotAllowed), http.MethodDelete, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestNewHandlerWithoutProviderReportsUnavailable(t *testing.T) {
	h := NewHandler(Deps{Sessions: session.Static("u1")})
	req := withParams(httptest.NewRequest(http.MethodGet, "/collections/c1", nil), "collectionID", "c1")
	rr := testutil.ServeRequest(http.HandlerFunc(h.CollectionPage), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertBodyContains(t, rr, providers.ErrProviderUnavailable.Error())
}
