package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"autotex/internal/clock"
	"autotex/internal/config"
	"autotex/internal/core"
	"autotex/internal/pass"
	"autotex/internal/trace"
	"autotex/internal/watch"
)

// Env holds the process-level collaborators of an invocation. Tests swap
// them for fakes; Execute uses DefaultEnv.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	Runner   core.ExternalRunner
	Launcher core.Launcher

	Clock    clock.Clock
	Interval time.Duration
}

// DefaultEnv wires the real process runner and clock to the standard
// streams.
func DefaultEnv() Env {
	runner := core.NewProcessRunner()
	return Env{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Runner:   runner,
		Launcher: runner,
		Clock:    clock.Real(),
		Interval: watch.DefaultInterval,
	}
}

type CLIResult struct {
	ExitCode int

	// Outcome is the last compile pass outcome of a one-shot run.
	Outcome *pass.Outcome

	// Removed lists the files deleted in remove-aux mode.
	Removed []string
}

// Execute runs a canonical invocation against the real environment.
func Execute(ctx context.Context, inv CLIInvocation) (CLIResult, error) {
	return ExecuteWithEnv(ctx, inv, DefaultEnv())
}

// ExecuteWithEnv maps a CLIInvocation to a compile session.
//
// Responsibilities:
//   - Load configuration and resolve the engine before any process starts.
//   - Discover the document's file set.
//   - Run one pass (one-shot) or hand over to the supervisor (continuous).
//   - Write the step trace when requested, even after a failure.
//   - Translate outcomes and error kinds to semantic exit codes.
func ExecuteWithEnv(ctx context.Context, inv CLIInvocation, env Env) (res CLIResult, execErr error) {
	res.ExitCode = ExitInternalError
	if env.Runner == nil {
		return res, fmt.Errorf("nil runner")
	}
	if env.Stdout == nil {
		env.Stdout = io.Discard
	}
	if env.Stderr == nil {
		env.Stderr = io.Discard
	}

	defer func() {
		if r := recover(); r != nil {
			res.ExitCode = ExitInternalError
			execErr = fmt.Errorf("panic: %v", r)
		}
	}()

	if inv.Help {
		fmt.Fprint(env.Stdout, Usage())
		res.ExitCode = ExitSuccess
		return res, nil
	}

	logger := newLogger(env.Stderr, inv.Verbose)

	if inv.Mode == ModeRemoveAux {
		return removeAux(inv, logger)
	}

	path, explicit, err := config.Locate(inv.ConfigPath)
	if err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}
	logger.Debug("configuration loaded", "path", path, "config", cfg.String())

	resolver := core.NewEngineResolver(cfg.Engine.TexFamily, cfg.Engine.LatexFamily)
	fallback := cfg.Engine.Main
	if inv.LatexFamily {
		fallback = cfg.Engine.Latex
	}
	engine, err := resolver.Resolve(inv.Engine, fallback)
	if err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}
	logger.Debug("engine resolved", "engine", engine.Name, "tex_family", engine.TexFamily)

	discoverer := core.NewDiscoverer()
	if inv.Asymptote {
		discoverer = core.NewDiscoverer(core.ExtAsymptote)
	}
	set, err := discoverer.Discover(inv.Input)
	if err != nil {
		res.ExitCode = exitCodeFor(err)
		return res, err
	}
	logger.Debug("file set discovered", "main", set.MainFile, "dir", set.WorkingDir, "files", len(set.Files))

	session := uuid.NewString()
	logger = logger.With("session", session)
	recorder := trace.NewRecorder()
	if inv.Trace.Enabled {
		defer func() {
			if err := writeTrace(logger, inv.Trace.Path, recorder.Trace(session, engine.Name)); err != nil && execErr == nil {
				res.ExitCode = ExitInternalError
				execErr = err
			}
		}()
	}

	compiler := &pass.Pass{
		Runner: core.WithTimeout(env.Runner, cfg.InvocationTimeout()),
		Policy: pass.FixedPolicy{Asymptote: inv.Asymptote},
		Tools: pass.Tools{
			Bibliography: cfg.Tools.Bibliography,
			Index:        cfg.Tools.Index,
			Asymptote:    cfg.Tools.Asymptote,
		},
		Sink:   recorder,
		Logger: logger,
	}
	var viewer *core.Viewer
	if inv.View {
		launcher := env.Launcher
		if launcher == nil {
			launcher = core.NewProcessRunner()
		}
		viewer = core.NewViewer(cfg.ViewerProgram(), launcher)
	}

	if inv.Mode == ModeContinuous {
		return runContinuous(ctx, inv, env, logger, engine, discoverer, compiler, viewer, set)
	}
	return runOnce(ctx, logger, engine, compiler, viewer, set)
}

func runOnce(ctx context.Context, logger *slog.Logger, engine core.Engine, compiler *pass.Pass, viewer *core.Viewer, set *core.FileSet) (CLIResult, error) {
	res := CLIResult{ExitCode: ExitInternalError}
	if err := core.RemoveOutput(set); err != nil {
		return res, err
	}
	outcome, err := compiler.Run(ctx, engine, set)
	res.Outcome = &outcome
	if err != nil {
		res.ExitCode = exitCodeFor(err)
		return res, err
	}
	if !outcome.Success {
		res.ExitCode = ExitCompileFailure
		return res, nil
	}
	if viewer != nil {
		if err := viewer.Launch(set); err != nil {
			logger.Error("viewer launch failed", "viewer", viewer.Program, "output", set.OutputFile(), "error", err)
		}
	}
	res.ExitCode = ExitSuccess
	return res, nil
}

func runContinuous(ctx context.Context, inv CLIInvocation, env Env, logger *slog.Logger, engine core.Engine, discoverer *core.Discoverer, compiler *pass.Pass, viewer *core.Viewer, set *core.FileSet) (CLIResult, error) {
	res := CLIResult{ExitCode: ExitInternalError}
	sup := &watch.Supervisor{
		Root:       inv.Input,
		Engine:     engine,
		Discoverer: discoverer,
		Compiler:   compiler,
		Watcher:    watch.NewWatcher(),
		Clock:      env.Clock,
		Interval:   env.Interval,
		Printer:    watch.NewPrinter(env.Stdout, inv.NoColor),
		Logger:     logger,
	}
	if viewer != nil {
		sup.Viewer = viewer
	}
	logger.Debug("continuous session started", "root", inv.Input)

	if err := sup.Run(ctx, set); err != nil {
		if errors.Is(err, watch.ErrFirstCompileFailed) {
			res.ExitCode = ExitCompileFailure
			return res, err
		}
		res.ExitCode = exitCodeFor(err)
		return res, err
	}
	res.ExitCode = ExitSuccess
	return res, nil
}

func removeAux(inv CLIInvocation, logger *slog.Logger) (CLIResult, error) {
	res := CLIResult{ExitCode: ExitInternalError}
	removed, err := core.RemoveAux(filepath.Dir(inv.Input))
	res.Removed = removed
	for _, p := range removed {
		logger.Info("removed auxiliary file", "path", p)
	}
	if err != nil {
		return res, err
	}
	res.ExitCode = ExitSuccess
	return res, nil
}

func writeTrace(logger *slog.Logger, path string, t trace.SessionTrace) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}
	if err := t.WriteFile(path); err != nil {
		return err
	}
	hash, err := t.Hash()
	if err != nil {
		return err
	}
	logger.Debug("trace written", "path", path, "events", len(t.Events), "trace_hash", hash)
	return nil
}

// exitCodeFor classifies an error by its kind.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, core.ErrConfigFailure), errors.Is(err, core.ErrInvalidEngine):
		return ExitConfigError
	case errors.Is(err, core.ErrDiscoveryFailure), errors.Is(err, core.ErrStatFailure):
		return ExitDiscoveryError
	case errors.Is(err, core.ErrLaunchFailure), errors.Is(err, core.ErrMalformedPath):
		return ExitCompileFailure
	default:
		return ExitInternalError
	}
}
