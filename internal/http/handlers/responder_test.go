package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/testutil"
)

func TestWriteErrorIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	logger, _ := testutil.NewBufferLogger()
	req.Header.Set("X-Request-ID", "abc123")

	rr := testutil.ServeRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTeapot, "boom", logger)
	}), req)

	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected content type json, got %s", got)
	}
	var body errorBody
	testutil.DecodeJSON(t, rr, &body)
	if body.Message != "boom" || body.RequestID != "abc123" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteErrorFallsBackToStatusText(t *testing.T) {
	rr := testutil.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusBadGateway, "", nil)
	}), http.MethodGet, "/", nil)
	testutil.AssertBodyContains(t, rr, http.StatusText(http.StatusBadGateway))
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := testutil.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, make(chan int), logger)
	}), http.MethodGet, "/encode-error", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(buf.String(), "failed to encode response") {
		t.Fatalf("expected encode failure to be logged, got %s", buf.String())
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{collections.ErrInvalidRequest, http.StatusBadRequest},
		{errNoSession, http.StatusUnauthorized},
		{providers.StatusError("p", "op", http.StatusForbidden, "Not authorized"), http.StatusForbidden},
		{fmt.Errorf("collection %w", providers.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{providers.ErrProviderUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	if loggerFromContext(nil, logger) != logger {
		t.Fatalf("expected fallback for nil request")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if loggerFromContext(req, logger) != logger {
		t.Fatalf("expected fallback without request logger")
	}
}
