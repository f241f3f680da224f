package pass

// Outcome summarizes one pass.
//
// There is no partial success: Success is true only if every planned step
// succeeded.
type Outcome struct {
	Success bool

	// Steps is the plan that was executed.
	Steps []Step

	// States is the final state of each step in Steps.
	States PassState

	// FailedStep is the index of the failing step, or -1.
	FailedStep int
}

// Executed returns the steps that were started, in order.
func (o Outcome) Executed() []Step {
	var out []Step
	for i, s := range o.States {
		if s == StepSucceeded || s == StepFailed {
			out = append(out, o.Steps[i])
		}
	}
	return out
}
