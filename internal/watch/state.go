package watch

import "fmt"

// State is a phase of the supervisor.
type State string

const (
	StateInitializing State = "INITIALIZING"
	StateCompiling    State = "COMPILING"
	StateViewing      State = "VIEWING"
	StateWaiting      State = "WAITING"
	StateTerminating  State = "TERMINATING"
)

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateInitializing:
		return to == StateCompiling || to == StateTerminating
	case StateCompiling:
		return to == StateViewing || to == StateWaiting || to == StateTerminating
	case StateViewing:
		return to == StateWaiting
	case StateWaiting:
		return to == StateCompiling || to == StateTerminating
	default:
		return false
	}
}

func transition(from, to State) error {
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed supervisor transition: %s -> %s", from, to)
	}
	return nil
}
