package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotex/internal/core"
	"autotex/internal/trace"
)

func TestRun_BibliographyFailureStopsPass(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"bibtex": true}}

	outcome, err := New(runner).Run(context.Background(), core.Engine{Name: "pdflatex"}, fileSet("paper.tex", "refs.bib"))
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.FailedStep)
	assert.Equal(t, []string{"pdflatex paper.tex", "bibtex paper"}, runner.programs())
	assert.Equal(t, PassState{StepSucceeded, StepFailed, StepSkipped, StepSkipped}, outcome.States)
	assert.Len(t, outcome.Executed(), 2)
}

func TestRun_FirstMainFailureStopsEverything(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"pdflatex": true}}

	outcome, err := New(runner).Run(context.Background(), core.Engine{Name: "pdflatex"}, fileSet("paper.tex", "refs.bib", "x.idx"))
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, 0, outcome.FailedStep)
	assert.Equal(t, 1, runner.count("pdflatex"))
	assert.Zero(t, runner.count("bibtex"))
	assert.Zero(t, runner.count("makeindex"))
}

func TestRun_IndexFailureSkipsRemainingIndexFiles(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"makeindex": true}}

	outcome, err := New(runner).Run(context.Background(), core.Engine{Name: "pdflatex"}, fileSet("paper.tex", "a.idx", "b.idx"))
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, []string{"pdflatex paper.tex", "makeindex a.idx"}, runner.programs())
}

func TestRun_LaunchFailureIsError(t *testing.T) {
	launch := &core.Error{Kind: core.ErrLaunchFailure, Msg: "starting bibtex"}
	runner := &fakeRunner{launchErr: map[string]error{"bibtex": launch}}

	outcome, err := New(runner).Run(context.Background(), core.Engine{Name: "pdflatex"}, fileSet("paper.tex", "refs.bib"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrLaunchFailure))
	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.FailedStep)
	assert.Len(t, runner.calls, 2)
}

func TestRun_UsesWorkingDirForEveryStep(t *testing.T) {
	runner := &fakeRunner{}
	set := fileSet("paper.tex", "refs.bib", "paper.idx")
	set.WorkingDir = "/elsewhere/doc"

	_, err := New(runner).Run(context.Background(), core.Engine{Name: "pdflatex"}, set)
	require.NoError(t, err)
	for _, c := range runner.calls {
		assert.Equal(t, "/elsewhere/doc", c.Dir)
	}
}

func TestRun_CancelledContextDoesNotInterruptPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{}

	outcome, err := New(runner).Run(ctx, core.Engine{Name: "pdflatex"}, fileSet("paper.tex"))
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	for _, e := range runner.ctxErrs {
		assert.NoError(t, e)
	}
}

func TestRun_RecordsTraceEvents(t *testing.T) {
	rec := trace.NewRecorder()
	runner := &fakeRunner{fail: map[string]bool{"bibtex": true}}
	p := New(runner)
	p.Sink = rec

	_, err := p.Run(context.Background(), core.Engine{Name: "pdflatex"}, fileSet("paper.tex", "refs.bib"))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), core.Engine{Name: "pdflatex"}, fileSet("paper.tex"))
	require.NoError(t, err)

	tr := rec.Trace("session", "pdflatex")
	require.NoError(t, tr.Validate())

	var got []string
	for _, e := range tr.Events {
		got = append(got, string(e.Kind)+":"+e.Step)
	}
	assert.Equal(t, []string{
		"StepStarted:main", "StepSucceeded:main",
		"StepStarted:bibliography", "StepFailed:bibliography",
		"StepSkipped:main", "StepSkipped:main",
		"StepStarted:main", "StepSucceeded:main",
		"StepStarted:main", "StepSucceeded:main",
	}, got)
	assert.Equal(t, 2, tr.Events[len(tr.Events)-1].Pass)
}

func TestExecute_EmptyPlanSucceeds(t *testing.T) {
	outcome, err := Execute(context.Background(), &fakeRunner{}, "/doc", nil)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, -1, outcome.FailedStep)
}

func TestRun_NilInputs(t *testing.T) {
	_, err := (&Pass{}).Run(context.Background(), core.Engine{Name: "pdftex"}, fileSet("paper.tex"))
	assert.Error(t, err)
	_, err = New(&fakeRunner{}).Run(context.Background(), core.Engine{Name: "pdftex"}, nil)
	assert.Error(t, err)
}
