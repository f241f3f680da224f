package pass

// StepState is the runtime state of one step within a pass.
type StepState string

const (
	StepPending   StepState = "PENDING"
	StepRunning   StepState = "RUNNING"
	StepSucceeded StepState = "SUCCEEDED"
	StepFailed    StepState = "FAILED"
	StepSkipped   StepState = "SKIPPED"
)

// PassState holds per-step states, indexed like the plan they belong to.
type PassState []StepState

// NewPassState returns n pending steps.
func NewPassState(n int) PassState {
	st := make(PassState, n)
	for i := range st {
		st[i] = StepPending
	}
	return st
}
