package pass

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"autotex/internal/core"
	"autotex/internal/trace"
)

// Pass runs compile passes for one document session.
type Pass struct {
	Runner core.ExternalRunner
	Policy Policy
	Tools  Tools

	// Sink receives one event per step transition (optional).
	Sink trace.Sink

	// Logger receives debug-level step logs (optional).
	Logger *slog.Logger

	count atomic.Int64
}

// New returns a Pass using FixedPolicy and DefaultTools.
func New(runner core.ExternalRunner) *Pass {
	return &Pass{Runner: runner, Policy: FixedPolicy{}, Tools: DefaultTools()}
}

// Run plans and executes one pass for engine over set.
//
// A failing step ends the pass with Success=false; that is not an error.
// An error is returned only when the plan cannot be built
// (ErrMalformedPath) or a program cannot be started (ErrLaunchFailure).
//
// Cancellation of ctx does not interrupt a pass once started: every step
// runs to completion.
func (p *Pass) Run(ctx context.Context, engine core.Engine, set *core.FileSet) (Outcome, error) {
	if p.Runner == nil {
		return Outcome{FailedStep: -1}, fmt.Errorf("nil runner")
	}
	if set == nil {
		return Outcome{FailedStep: -1}, fmt.Errorf("nil file set")
	}
	policy := p.Policy
	if policy == nil {
		policy = FixedPolicy{}
	}
	steps, err := policy.Plan(engine, set, p.Tools)
	if err != nil {
		return Outcome{FailedStep: -1}, err
	}

	number := int(p.count.Add(1))
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("pass", number, "engine", engine.Name)

	ex := executor{
		runner: p.Runner,
		dir:    set.WorkingDir,
		pass:   number,
		sink:   p.Sink,
		logger: logger,
	}
	outcome, err := ex.execute(context.WithoutCancel(ctx), steps)
	if err == nil && !outcome.Success {
		failed := outcome.Steps[outcome.FailedStep]
		logger.Warn("compile pass failed", "step", failed.Kind, "program", failed.Program, "argument", failed.Argument)
	}
	return outcome, err
}

// Execute interprets steps in order against runner, stopping at the first
// step that fails or cannot be launched.
func Execute(ctx context.Context, runner core.ExternalRunner, dir string, steps []Step) (Outcome, error) {
	ex := executor{runner: runner, dir: dir, pass: 1, logger: slog.New(slog.DiscardHandler)}
	return ex.execute(ctx, steps)
}

type executor struct {
	runner core.ExternalRunner
	dir    string
	pass   int
	sink   trace.Sink
	logger *slog.Logger
}

func (e executor) execute(ctx context.Context, steps []Step) (Outcome, error) {
	state := NewPassState(len(steps))
	outcome := Outcome{Steps: steps, States: state, FailedStep: -1}

	for i, step := range steps {
		if err := Transition(state, i, StepPending, StepRunning); err != nil {
			return outcome, err
		}
		e.record(trace.EventStepStarted, i, step)
		e.logger.Debug("running step", "seq", i, "step", step.Kind, "program", step.Program, "argument", step.Argument)

		ok, runErr := e.runner.Run(ctx, e.dir, step.Program, step.Argument)
		if runErr != nil || !ok {
			if err := FailAndSkip(state, i); err != nil {
				return outcome, err
			}
			outcome.FailedStep = i
			e.record(trace.EventStepFailed, i, step)
			for j := i + 1; j < len(steps); j++ {
				e.record(trace.EventStepSkipped, j, steps[j])
			}
			return outcome, runErr
		}

		if err := Transition(state, i, StepRunning, StepSucceeded); err != nil {
			return outcome, err
		}
		e.record(trace.EventStepSucceeded, i, step)
	}

	outcome.Success = true
	return outcome, nil
}

func (e executor) record(kind trace.EventKind, seq int, step Step) {
	trace.SafeRecord(e.sink, trace.Event{
		Kind:     kind,
		Pass:     e.pass,
		Seq:      seq,
		Step:     string(step.Kind),
		Program:  step.Program,
		Argument: step.Argument,
	})
}
