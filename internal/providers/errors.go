package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("not authorized")
	ErrProviderUnavailable = errors.New("collection source unavailable")
)

// UpstreamError captures a failed call to the collection source.
type UpstreamError struct {
	Provider   string
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "collection source request failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusError maps an upstream status code onto the sentinel errors.
func StatusError(provider, op string, status int, message string) *UpstreamError {
	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		sentinel = ErrProviderUnavailable
	}
	return &UpstreamError{
		Provider:   provider,
		Op:         op,
		StatusCode: status,
		Message:    strings.TrimSpace(message),
		Err:        sentinel,
	}
}

// AsUpstreamError attempts to unwrap an error into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// Message returns the text shown to users for a failed call. Upstream
// messages win; otherwise the error text is used as is.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if upErr, ok := AsUpstreamError(err); ok && upErr.Message != "" {
		return upErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The collection source took too long to respond."
	}
	return err.Error()
}
