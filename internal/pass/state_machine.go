package pass

import "fmt"

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s StepState) bool {
	switch s {
	case StepSucceeded, StepFailed, StepSkipped:
		return true
	default:
		return false
	}
}

// Transition performs a validated transition for step i.
//
// The caller supplies the expected prior state (from) so a mismatch is
// reported instead of silently overwritten.
func Transition(state PassState, i int, from, to StepState) error {
	if i < 0 || i >= len(state) {
		return fmt.Errorf("unknown step %d in state of %d steps", i, len(state))
	}
	if cur := state[i]; cur != from {
		return fmt.Errorf("invalid transition for step %d: expected %s, got %s", i, from, cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition for step %d: %s -> %s", i, from, to)
	}
	state[i] = to
	return nil
}

func isAllowedTransition(from, to StepState) bool {
	switch from {
	case StepPending:
		return to == StepRunning || to == StepSkipped
	case StepRunning:
		return to == StepSucceeded || to == StepFailed
	default:
		return false
	}
}

// FailAndSkip transitions step i from RUNNING to FAILED and marks every
// later pending step SKIPPED. A later step that is already RUNNING is an
// invariant violation: passes are strictly sequential.
func FailAndSkip(state PassState, i int) error {
	if err := Transition(state, i, StepRunning, StepFailed); err != nil {
		return err
	}
	for j := i + 1; j < len(state); j++ {
		switch state[j] {
		case StepPending:
			state[j] = StepSkipped
		case StepRunning:
			return fmt.Errorf("invariant violation: step %d is RUNNING after failed step %d", j, i)
		}
	}
	return nil
}
