package views

import "github.com/preston-bernstein/game-collections-service/internal/cache"

// Phase is which of the four collection views is shown.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseEmpty
	PhasePopulated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseEmpty:
		return "empty"
	case PhasePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Classify maps a fetch state to the view to render. Without a session the
// empty view is shown whatever the state.
func Classify(sessionPresent bool, st cache.State) Phase {
	if !sessionPresent {
		return PhaseEmpty
	}
	switch st.Status {
	case cache.StatusError:
		return PhaseError
	case cache.StatusSuccess:
		if len(st.View.Games) == 0 {
			return PhaseEmpty
		}
		return PhasePopulated
	default:
		return PhaseLoading
	}
}
