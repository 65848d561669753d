package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSameOrigin(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := SameOrigin(okHandler)

	cases := []struct {
		name    string
		method  string
		headers map[string]string
		want    int
	}{
		{name: "no browser headers", method: http.MethodPost, want: http.StatusNoContent},
		{name: "same origin fetch", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "same-origin"}, want: http.StatusNoContent},
		{name: "user typed", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "none"}, want: http.StatusNoContent},
		{name: "cross site fetch", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, want: http.StatusForbidden},
		{name: "same site sibling", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "same-site"}, want: http.StatusForbidden},
		{name: "matching origin", method: http.MethodPost, headers: map[string]string{"Origin": "http://example.com"}, want: http.StatusNoContent},
		{name: "foreign origin", method: http.MethodPost, headers: map[string]string{"Origin": "https://evil.test"}, want: http.StatusForbidden},
		{name: "safe method from elsewhere", method: http.MethodGet, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "http://example.com/collections/c1/games/halo/remove", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}
