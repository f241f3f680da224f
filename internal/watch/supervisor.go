package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"autotex/internal/clock"
	"autotex/internal/core"
	"autotex/internal/pass"
)

// DefaultInterval is the poll period between snapshots.
const DefaultInterval = time.Second

// ErrFirstCompileFailed is returned when the compile that opens a session
// does not succeed. Later compile failures never end the session.
var ErrFirstCompileFailed = errors.New("initial compile failed")

// Compiler runs one compile pass.
type Compiler interface {
	Run(ctx context.Context, engine core.Engine, set *core.FileSet) (pass.Outcome, error)
}

// SnapshotTaker takes modification-time snapshots.
type SnapshotTaker interface {
	Snapshot(set *core.FileSet) (Snapshot, error)
}

// ViewLauncher opens the output artifact without waiting for it.
type ViewLauncher interface {
	Launch(set *core.FileSet) error
}

// Supervisor recompiles a document every time one of its files changes,
// until its context is cancelled.
type Supervisor struct {
	// Root is the path of the root source file, used for rediscovery.
	Root   string
	Engine core.Engine

	Discoverer core.FileSetProvider
	Compiler   Compiler
	Watcher    SnapshotTaker

	// Viewer is launched after the first successful compile when non-nil.
	Viewer ViewLauncher

	// RemoveOutput deletes the stale artifact before each recompile.
	// Defaults to core.RemoveOutput.
	RemoveOutput func(set *core.FileSet) error

	Clock    clock.Clock
	Interval time.Duration
	Printer  *Printer
	Logger   *slog.Logger

	state   State
	history []State
}

// State returns the current phase.
func (s *Supervisor) State() State { return s.state }

// History returns every phase entered so far, in order.
func (s *Supervisor) History() []State {
	return append([]State(nil), s.history...)
}

func (s *Supervisor) enter(to State) error {
	if s.state != "" {
		if err := transition(s.state, to); err != nil {
			return err
		}
	}
	s.state = to
	s.history = append(s.history, to)
	return nil
}

// Run drives a session over set, which must be freshly discovered from
// Root.
//
// Run returns nil when ctx is cancelled while waiting for changes. It
// returns ErrFirstCompileFailed (or the launch error) when the first
// compile fails, and a non-nil error when the stale output cannot be
// removed. No compile starts after Run has begun terminating.
func (s *Supervisor) Run(ctx context.Context, set *core.FileSet) error {
	if err := s.validate(set); err != nil {
		return err
	}
	logger := s.logger()

	if err := s.enter(StateInitializing); err != nil {
		return err
	}
	baseline, err := s.Watcher.Snapshot(set)
	if err != nil {
		_ = s.enter(StateTerminating)
		return err
	}

	if err := s.enter(StateCompiling); err != nil {
		return err
	}
	ok, err := s.compile(ctx, set)
	if err != nil || !ok {
		_ = s.enter(StateTerminating)
		if err != nil {
			return err
		}
		return ErrFirstCompileFailed
	}

	if s.Viewer != nil {
		if err := s.enter(StateViewing); err != nil {
			return err
		}
		if err := s.Viewer.Launch(set); err != nil {
			logger.Error("viewer launch failed", "output", set.OutputFile(), "error", err)
		}
	}
	s.Printer.Prompt()

	for {
		if s.state != StateWaiting {
			if err := s.enter(StateWaiting); err != nil {
				return err
			}
		}
		if err := s.wait(ctx); err != nil {
			break
		}
		next, changed, err := s.poll(set, baseline)
		if err != nil {
			// The old set is still the best description of the tree.
			logger.Warn("rediscovery failed, keeping previous file set", "root", s.Root, "error", err)
			continue
		}
		if !changed {
			continue
		}

		s.reportChanges(logger, set, next)
		set = next

		if err := s.removeOutput(set); err != nil {
			_ = s.enter(StateTerminating)
			return err
		}
		if err := s.enter(StateCompiling); err != nil {
			return err
		}
		if _, err := s.compile(ctx, set); err != nil {
			logger.Error("compile could not run", "error", err)
		}

		baseline, err = s.Watcher.Snapshot(set)
		if err != nil {
			logger.Debug("baseline snapshot failed", "error", err)
			baseline = nil
		}
		s.Printer.Prompt()
	}

	if err := s.enter(StateTerminating); err != nil {
		return err
	}
	s.Printer.Farewell()
	return nil
}

// wait blocks for one poll interval, returning early with ctx.Err() when
// ctx is done.
func (s *Supervisor) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return clock.SleepContext(ctx, s.clock(), s.interval())
}

// poll rediscovers the file set and reports whether it differs from set,
// either in its file list or in a modification time relative to baseline.
// A snapshot that cannot be taken counts as a change. The returned set is
// the freshly discovered one; on error it is nil.
func (s *Supervisor) poll(set *core.FileSet, baseline Snapshot) (*core.FileSet, bool, error) {
	next, err := s.Discoverer.Discover(s.Root)
	if err != nil {
		return nil, false, err
	}
	if !slices.Equal(set.Files, next.Files) {
		return next, true, nil
	}
	current, err := s.Watcher.Snapshot(next)
	if err != nil {
		s.logger().Debug("snapshot failed, recompiling", "error", err)
		return next, true, nil
	}
	return next, Changed(baseline, current), nil
}

func (s *Supervisor) compile(ctx context.Context, set *core.FileSet) (bool, error) {
	outcome, err := s.Compiler.Run(ctx, s.Engine, set)
	if err != nil {
		return false, err
	}
	return outcome.Success, nil
}

func (s *Supervisor) reportChanges(logger *slog.Logger, before, after *core.FileSet) {
	added, removed := fileSetDiff(before.Files, after.Files)
	if len(added) == 0 && len(removed) == 0 {
		logger.Debug("file set unchanged", "files", len(after.Files))
		return
	}
	logger.Info("file set changed", "added", added, "removed", removed)
}

func (s *Supervisor) validate(set *core.FileSet) error {
	switch {
	case set == nil:
		return fmt.Errorf("nil file set")
	case s.Discoverer == nil:
		return fmt.Errorf("nil discoverer")
	case s.Compiler == nil:
		return fmt.Errorf("nil compiler")
	case s.Watcher == nil:
		return fmt.Errorf("nil watcher")
	case s.state != "":
		return fmt.Errorf("supervisor already ran")
	}
	return nil
}

func (s *Supervisor) removeOutput(set *core.FileSet) error {
	if s.RemoveOutput != nil {
		return s.RemoveOutput(set)
	}
	return core.RemoveOutput(set)
}

func (s *Supervisor) clock() clock.Clock {
	if s.Clock == nil {
		return clock.Real()
	}
	return s.Clock
}

func (s *Supervisor) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

func (s *Supervisor) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
