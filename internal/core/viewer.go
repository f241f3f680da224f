package core

import "runtime"

// DefaultViewer returns the platform's generic file opener.
func DefaultViewer() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Viewer opens a FileSet's output artifact in an external program.
type Viewer struct {
	Program  string
	Launcher Launcher
}

// NewViewer returns a Viewer for program, or the platform default when
// program is empty.
func NewViewer(program string, launcher Launcher) *Viewer {
	if program == "" {
		program = DefaultViewer()
	}
	return &Viewer{Program: program, Launcher: launcher}
}

// Launch starts the viewer on set's output file and returns without
// waiting for the viewer to exit.
func (v *Viewer) Launch(set *FileSet) error {
	return v.Launcher.Start(set.WorkingDir, v.Program, set.OutputFile())
}
