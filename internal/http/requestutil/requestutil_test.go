package requestutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	if got := SanitizeRequestID("bad id"); got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	useFallback.Store(true)
	defer useFallback.Store(false)
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected fallback request id when RNG fails")
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9:1234" {
		t.Fatalf("expected remote addr fallback, got %s", got)
	}
}

func TestContentNegotiation(t *testing.T) {
	cases := []struct {
		name        string
		accept      string
		contentType string
		hx          string
		wantJSON    bool
		wantHTMX    bool
	}{
		{name: "browser form", accept: "text/html,application/xhtml+xml", contentType: "application/x-www-form-urlencoded"},
		{name: "json accept", accept: "application/json", wantJSON: true},
		{name: "json among many", accept: "text/html, application/json;q=0.9", wantJSON: true},
		{name: "json body", contentType: "application/json; charset=utf-8", wantJSON: true},
		{name: "htmx", accept: "text/html", hx: "true", wantHTMX: true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tc.accept != "" {
			req.Header.Set("Accept", tc.accept)
		}
		if tc.contentType != "" {
			req.Header.Set("Content-Type", tc.contentType)
		}
		if tc.hx != "" {
			req.Header.Set("HX-Request", tc.hx)
		}
		if got := WantsJSON(req); got != tc.wantJSON {
			t.Fatalf("%s: WantsJSON=%v, want %v", tc.name, got, tc.wantJSON)
		}
		if got := IsHTMX(req); got != tc.wantHTMX {
			t.Fatalf("%s: IsHTMX=%v, want %v", tc.name, got, tc.wantHTMX)
		}
	}
	if WantsJSON(nil) || IsHTMX(nil) {
		t.Fatalf("nil request must not negotiate")
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if BearerToken(req) != "" {
		t.Fatalf("expected no token")
	}
	req.Header.Set("Authorization", "bearer abc ")
	if got := BearerToken(req); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	req.Header.Set("Authorization", "Basic xyz")
	if BearerToken(req) != "" {
		t.Fatalf("expected basic auth to be ignored")
	}
	if BearerToken(nil) != "" {
		t.Fatalf("expected empty for nil request")
	}
}
