package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

const (
	ExitSuccess           = 0
	ExitCompileFailure    = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
	ExitDiscoveryError    = 5
)

type Mode string

const (
	ModeOnce       Mode = "once"
	ModeContinuous Mode = "continuous"
	ModeRemoveAux  Mode = "remove-aux"
)

type TraceConfig struct {
	Enabled bool
	Path    string
}

// CLIInvocation is the canonical description of one run.
//
// Engine holds the explicitly requested engine name; empty means the
// configured default for the selected family (LatexFamily).
type CLIInvocation struct {
	Input       string
	Engine      string
	LatexFamily bool
	Mode        Mode
	View        bool
	Asymptote   bool
	ConfigPath  string
	Trace       TraceConfig
	Verbose     bool
	NoColor     bool
	Help        bool
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// variant flags select the engine flavour. At most one may be given.
var variantFlags = []struct {
	name, short, prefix, help string
}{
	{"pdftex", "p", "pdf", "Compile with pdftex (pdflatex with -L)"},
	{"xetex", "x", "xe", "Compile with xetex (xelatex with -L)"},
	{"luatex", "l", "lua", "Compile with luatex (lualatex with -L)"},
	{"tex", "t", "", "Compile with plain tex"},
}

func newFlagSet(inv *CLIInvocation, variants map[string]*bool, tracePath *string, removeAux, conti *bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("autotex", pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed
	fs.SortFlags = false

	fs.StringVarP(&inv.Engine, "engine", "e", "", "Engine to compile with")
	for _, v := range variantFlags {
		variants[v.name] = fs.BoolP(v.name, v.short, false, v.help)
	}
	fs.BoolVarP(&inv.LatexFamily, "latex", "L", false, "Use the LaTeX family of the selected engine")
	fs.BoolVarP(conti, "conti", "c", false, "Recompile whenever a source file changes")
	fs.BoolVarP(&inv.View, "view", "v", false, "Open the PDF after the first successful compile")
	fs.BoolVarP(&inv.Asymptote, "asy", "a", false, "Run asymptote on .asy files between passes")
	fs.BoolVarP(removeAux, "remove-aux", "r", false, "Delete auxiliary files next to INPUT and exit")
	fs.StringVar(&inv.ConfigPath, "config", "", "Configuration file (default: $XDG_CONFIG_HOME/autotex/config.yaml)")
	fs.StringVar(tracePath, "trace", "", "Write a JSON trace of every compile step to this path")
	fs.BoolVar(&inv.Verbose, "verbose", false, "Log every step")
	fs.BoolVar(&inv.NoColor, "no-color", false, "Disable styled output")
	fs.BoolVarP(&inv.Help, "help", "h", false, "Show this help")
	return fs
}

// Usage returns the help text.
func Usage() string {
	var inv CLIInvocation
	var trace string
	var removeAux, conti bool
	fs := newFlagSet(&inv, map[string]*bool{}, &trace, &removeAux, &conti)
	return "Usage: autotex [flags] INPUT\n\nCompiles TeX or LaTeX, optionally continuously.\n\n" + fs.FlagUsages()
}

// ParseInvocation parses CLI arguments into a CLIInvocation.
//
// Engine selection: --engine names the engine directly and conflicts with
// the variant flags. Otherwise a variant flag and -L compose the name
// (-x -L is xelatex, -p is pdftex); --tex conflicts with -L. With no
// selection at all Engine stays empty.
func ParseInvocation(args []string) (CLIInvocation, error) {
	var inv CLIInvocation
	var tracePath string
	var removeAux, conti bool
	variants := make(map[string]*bool, len(variantFlags))
	fs := newFlagSet(&inv, variants, &tracePath, &removeAux, &conti)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return CLIInvocation{Help: true}, nil
		}
		return CLIInvocation{}, invalidInvocationf("%v", err)
	}
	if inv.Help {
		return CLIInvocation{Help: true}, nil
	}

	switch fs.NArg() {
	case 0:
		return CLIInvocation{}, invalidInvocationf("INPUT is required")
	case 1:
	default:
		return CLIInvocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args()[1:], " "))
	}
	input := fs.Arg(0)
	if strings.TrimSpace(input) == "" {
		return CLIInvocation{}, invalidInvocationf("INPUT must not be empty")
	}
	inv.Input = filepath.Clean(input)

	var selected []string
	prefix := ""
	for _, v := range variantFlags {
		if *variants[v.name] {
			selected = append(selected, "--"+v.name)
			prefix = v.prefix
		}
	}
	if len(selected) > 1 {
		return CLIInvocation{}, invalidInvocationf("%s cannot be combined", strings.Join(selected, " and "))
	}
	if fs.Changed("engine") {
		if strings.TrimSpace(inv.Engine) == "" {
			return CLIInvocation{}, invalidInvocationf("--engine must not be empty")
		}
		if len(selected) > 0 || inv.LatexFamily {
			return CLIInvocation{}, invalidInvocationf("--engine cannot be combined with engine shortcut flags")
		}
		inv.Engine = strings.ToLower(strings.TrimSpace(inv.Engine))
	} else if len(selected) == 1 {
		if *variants["tex"] && inv.LatexFamily {
			return CLIInvocation{}, invalidInvocationf("--tex cannot be combined with --latex")
		}
		family := "tex"
		if inv.LatexFamily {
			family = "latex"
		}
		inv.Engine = prefix + family
	}

	switch {
	case removeAux && (conti || inv.View):
		return CLIInvocation{}, invalidInvocationf("--remove-aux cannot be combined with --conti or --view")
	case removeAux:
		inv.Mode = ModeRemoveAux
	case conti:
		inv.Mode = ModeContinuous
	default:
		inv.Mode = ModeOnce
	}

	if strings.TrimSpace(tracePath) != "" {
		inv.Trace = TraceConfig{Enabled: true, Path: filepath.Clean(tracePath)}
	}
	return inv, nil
}

// ExitCode extracts a semantic exit code from a ParseInvocation error.
// If the error is not a known invocation error, it returns ExitInternalError.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
