package pass

import "autotex/internal/core"

// Policy decides the ordered steps of a pass. Swapping the policy changes
// how many reruns happen without touching execution.
type Policy interface {
	Plan(engine core.Engine, set *core.FileSet, tools Tools) ([]Step, error)
}

// FixedPolicy always plans the same number of reruns for a given engine
// family and auxiliary-file combination; it never reads compiler logs.
type FixedPolicy struct {
	// Asymptote enables one asymptote step per tracked .asy file after the
	// first main-engine run.
	Asymptote bool
}

// Plan returns the step sequence:
//
//	TeX family:    main, [asy...], main
//	LaTeX family:  main, [bib], [idx...], [asy...], main, main
//
// where the LaTeX family without bibliography or index files reruns the
// main engine once instead of twice.
func (p FixedPolicy) Plan(engine core.Engine, set *core.FileSet, tools Tools) ([]Step, error) {
	tools = tools.withDefaults()
	main := Step{Kind: StepMainEngine, Program: engine.Name, Argument: set.MainSource()}
	steps := []Step{main}

	var asy []Step
	if p.Asymptote && set.AsymptotePresent {
		var err error
		asy, err = perFileSteps(StepAsymptote, tools.Asymptote, set.FilesWithExt(core.ExtAsymptote))
		if err != nil {
			return nil, err
		}
	}

	if engine.TexFamily {
		steps = append(steps, asy...)
		return append(steps, main), nil
	}

	if set.BibliographyPresent {
		// The bibliography tool works on the bare stem, not the source file.
		steps = append(steps, Step{Kind: StepBibliography, Program: tools.Bibliography, Argument: set.MainFile})
	}
	if set.IndexPresent {
		idx, err := perFileSteps(StepIndex, tools.Index, set.FilesWithExt(core.ExtIndex))
		if err != nil {
			return nil, err
		}
		steps = append(steps, idx...)
	}
	steps = append(steps, asy...)

	if !set.BibliographyPresent && !set.IndexPresent {
		return append(steps, main), nil
	}
	return append(steps, main, main), nil
}

func perFileSteps(kind StepKind, program string, paths []string) ([]Step, error) {
	steps := make([]Step, 0, len(paths))
	for _, p := range paths {
		name, err := core.FileName(p)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Kind: kind, Program: program, Argument: name})
	}
	return steps, nil
}
