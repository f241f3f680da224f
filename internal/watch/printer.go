package watch

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	promptText   = "Press Ctrl+C to finish the program."
	farewellText = "Quitting"
)

// Printer writes the user-facing lines of a continuous session.
type Printer struct {
	out      io.Writer
	prompt   lipgloss.Style
	farewell lipgloss.Style
}

// NewPrinter returns a Printer writing to out. With noColor set, styling is
// reduced to plain text regardless of the terminal.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(out)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:      out,
		prompt:   r.NewStyle().Faint(true),
		farewell: r.NewStyle().Bold(true),
	}
}

// Prompt invites the user to interrupt the session.
func (p *Printer) Prompt() {
	if p == nil {
		return
	}
	fmt.Fprintln(p.out, p.prompt.Render(promptText))
}

// Farewell reports a graceful end of the session.
func (p *Printer) Farewell() {
	if p == nil {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.farewell.Render(farewellText))
}
