package pass

// StepKind tags a step in a pass plan. The string values appear in logs
// and trace files.
type StepKind string

const (
	StepMainEngine   StepKind = "main"
	StepBibliography StepKind = "bibliography"
	StepIndex        StepKind = "index"
	StepAsymptote    StepKind = "asymptote"
)

// Step is a single external invocation: Program run with Argument in the
// document's working directory.
type Step struct {
	Kind     StepKind
	Program  string
	Argument string
}

// Tools names the auxiliary executables a pass may invoke.
type Tools struct {
	Bibliography string
	Index        string
	Asymptote    string
}

// DefaultTools returns the conventional auxiliary tool names.
func DefaultTools() Tools {
	return Tools{Bibliography: "bibtex", Index: "makeindex", Asymptote: "asy"}
}

// withDefaults fills empty tool names from DefaultTools.
func (t Tools) withDefaults() Tools {
	d := DefaultTools()
	if t.Bibliography == "" {
		t.Bibliography = d.Bibliography
	}
	if t.Index == "" {
		t.Index = d.Index
	}
	if t.Asymptote == "" {
		t.Asymptote = d.Asymptote
	}
	return t
}
