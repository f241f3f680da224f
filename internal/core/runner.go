package core

import (
	"context"
	"time"
)

// ExternalRunner executes an external program with one positional argument
// in dir and reports whether it exited successfully.
//
// A non-nil error means the program could not be run at all
// (ErrLaunchFailure); a clean non-zero exit is (false, nil).
type ExternalRunner interface {
	Run(ctx context.Context, dir, program, arg string) (bool, error)
}

// Launcher starts an external program without waiting for it.
type Launcher interface {
	Start(dir, program, arg string) error
}

// RunnerFunc adapts a function to ExternalRunner.
type RunnerFunc func(ctx context.Context, dir, program, arg string) (bool, error)

func (f RunnerFunc) Run(ctx context.Context, dir, program, arg string) (bool, error) {
	return f(ctx, dir, program, arg)
}

// TimeoutRunner bounds every invocation of Next by Timeout. A zero Timeout
// passes calls straight through.
type TimeoutRunner struct {
	Next    ExternalRunner
	Timeout time.Duration
}

// WithTimeout wraps next when timeout is positive and returns next
// unchanged otherwise.
func WithTimeout(next ExternalRunner, timeout time.Duration) ExternalRunner {
	if timeout <= 0 {
		return next
	}
	return &TimeoutRunner{Next: next, Timeout: timeout}
}

func (r *TimeoutRunner) Run(ctx context.Context, dir, program, arg string) (bool, error) {
	if r.Timeout <= 0 {
		return r.Next.Run(ctx, dir, program, arg)
	}
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	return r.Next.Run(ctx, dir, program, arg)
}
