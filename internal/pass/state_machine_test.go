package pass

import "testing"

func TestStateMachine_Transitions_ValidAndInvalid(t *testing.T) {
	state := NewPassState(1)

	if err := Transition(state, 0, StepPending, StepRunning); err != nil {
		t.Fatalf("expected valid transition, got %v", err)
	}
	if err := Transition(state, 0, StepRunning, StepSucceeded); err != nil {
		t.Fatalf("expected valid transition, got %v", err)
	}

	// Terminal -> RUNNING is forbidden.
	if err := Transition(state, 0, StepSucceeded, StepRunning); err == nil {
		t.Fatalf("expected error")
	}

	// Wrong expected prior state is reported.
	state[0] = StepPending
	if err := Transition(state, 0, StepRunning, StepFailed); err == nil {
		t.Fatalf("expected error")
	}

	// PENDING -> SUCCEEDED skips RUNNING and is forbidden.
	if err := Transition(state, 0, StepPending, StepSucceeded); err == nil {
		t.Fatalf("expected error")
	}

	if err := Transition(state, 3, StepPending, StepRunning); err == nil {
		t.Fatalf("expected error for unknown step")
	}
}

func TestFailAndSkip_MarksLaterStepsSkipped(t *testing.T) {
	state := PassState{StepSucceeded, StepRunning, StepPending, StepPending}

	if err := FailAndSkip(state, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := PassState{StepSucceeded, StepFailed, StepSkipped, StepSkipped}
	for i := range want {
		if state[i] != want[i] {
			t.Fatalf("step %d: got %s want %s", i, state[i], want[i])
		}
	}
	for _, s := range state {
		if !IsTerminal(s) {
			t.Fatalf("expected all steps terminal, got %v", state)
		}
	}
}

func TestFailAndSkip_RunningLaterStepIsInvariantViolation(t *testing.T) {
	state := PassState{StepRunning, StepRunning}
	if err := FailAndSkip(state, 0); err == nil {
		t.Fatalf("expected invariant violation")
	}
}

func TestFailAndSkip_RequiresRunning(t *testing.T) {
	state := PassState{StepPending}
	if err := FailAndSkip(state, 0); err == nil {
		t.Fatalf("expected error")
	}
}
