package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestUpstreamErrorString(t *testing.T) {
	err := &UpstreamError{Provider: "p", StatusCode: 403, Message: "Not authorized"}
	if got := err.Error(); got != "Not authorized (status=403)" {
		t.Fatalf("unexpected error string %q", got)
	}
	if got := (&UpstreamError{}).Error(); got == "" {
		t.Fatalf("expected fallback message")
	}
}

func TestStatusErrorMapsSentinels(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:           ErrNotFound,
		http.StatusUnauthorized:       ErrUnauthorized,
		http.StatusForbidden:          ErrUnauthorized,
		http.StatusServiceUnavailable: ErrProviderUnavailable,
	}
	for status, want := range cases {
		err := StatusError("api", "op", status, "msg")
		if !errors.Is(err, want) {
			t.Fatalf("status %d: expected %v", status, want)
		}
	}
	if err := StatusError("api", "op", http.StatusTeapot, ""); err.Err != nil {
		t.Fatalf("expected no sentinel for 418, got %v", err.Err)
	}
}

func TestMessagePrefersUpstreamText(t *testing.T) {
	wrapped := fmt.Errorf("remove: %w", StatusError("api", "op", http.StatusForbidden, " Not authorized "))
	if got := Message(wrapped); got != "Not authorized" {
		t.Fatalf("expected upstream message, got %q", got)
	}
	if got := Message(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Fatalf("expected raw message, got %q", got)
	}
	if got := Message(context.DeadlineExceeded); got == context.DeadlineExceeded.Error() {
		t.Fatalf("expected friendly timeout message, got %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("expected empty message for nil, got %q", got)
	}
}
