package cache

import (
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
)

// Status is the phase of a keyed fetch.
type Status int

const (
	// StatusIdle means no fetch is wanted, e.g. there is no session.
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// State is what a reader of the cache sees for one key.
// View is only meaningful when FetchedAt is set.
type State struct {
	Status    Status
	View      collections.View
	Err       error
	FetchedAt time.Time
	// Stale marks a view that has been invalidated but not yet replaced.
	Stale bool
}

// Idle is the state for a disabled loader.
func Idle() State { return State{Status: StatusIdle} }

// Loading is the state while a fetch is in flight.
func Loading() State { return State{Status: StatusLoading} }

// Failed wraps a fetch error.
func Failed(err error) State { return State{Status: StatusError, Err: err} }

// Succeeded wraps a fetched view.
func Succeeded(v collections.View, at time.Time) State {
	return State{Status: StatusSuccess, View: v, FetchedAt: at}
}

// HasView reports whether a previously fetched view is available.
func (s State) HasView() bool {
	return !s.FetchedAt.IsZero()
}

// Fresh reports whether the state can be served without fetching.
// A zero maxAge means successful results never expire on their own.
func (s State) Fresh(maxAge time.Duration, now time.Time) bool {
	if s.Status != StatusSuccess || s.Stale {
		return false
	}
	if maxAge <= 0 {
		return true
	}
	return now.Sub(s.FetchedAt) < maxAge
}
