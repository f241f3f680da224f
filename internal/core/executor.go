package core

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ProcessRunner runs external programs as child processes. Output goes
// straight to Stdout/Stderr so the tools' own messages reach the user.
type ProcessRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewProcessRunner returns a ProcessRunner wired to the process's standard
// streams.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}

// Run executes program with a single positional argument in dir and waits
// for it. A clean non-zero exit reports (false, nil); failing to start the
// process reports ErrLaunchFailure.
//
// ctx bounds the wait: when it is done the whole process group is killed
// and the run counts as unsuccessful. A cancellable run gets no stdin, so
// an interactive error prompt sees end of input instead of waiting. Callers that must let a compile
// finish pass a context that is never cancelled.
func (r *ProcessRunner) Run(ctx context.Context, dir, program, arg string) (bool, error) {
	if program == "" {
		return false, kindf(ErrLaunchFailure, nil, "empty program name")
	}
	cmd := r.command(dir, program, arg)
	if ctx.Done() != nil {
		// Own process group so cancellation can reach grandchildren. A
		// background group must not read the terminal or it stops on
		// SIGTTIN, so stdin is detached.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Stdin = nil
	}

	if err := cmd.Start(); err != nil {
		return false, kindf(ErrLaunchFailure, err, "starting %s", program)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		}
		<-done
		return false, nil
	case err = <-done:
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, kindf(ErrLaunchFailure, err, "waiting for %s", program)
	}
	return true, nil
}

// Start launches program without waiting for it to exit. The child is
// reaped in the background.
func (r *ProcessRunner) Start(dir, program, arg string) error {
	if program == "" {
		return kindf(ErrLaunchFailure, nil, "empty program name")
	}
	cmd := r.command(dir, program, arg)
	cmd.Stdin = nil
	if err := cmd.Start(); err != nil {
		return kindf(ErrLaunchFailure, err, "starting %s", program)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (r *ProcessRunner) command(dir, program, arg string) *exec.Cmd {
	cmd := exec.Command(program, arg)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Stdin = r.Stdin
	if r.Env != nil {
		cmd.Env = r.Env
	}
	return cmd
}

