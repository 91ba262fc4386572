package lib

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	styleInfo = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	styleWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	styleError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	styleOK = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))
)

// Console writes user-facing progress messages prefixed with a severity marker.
type Console struct {
	Out io.Writer
}

// Stderr is the console used by the command-line tools.
var Stderr = &Console{Out: os.Stderr}

func NewConsole(w io.Writer) *Console {
	return &Console{Out: w}
}

// SetNoColor switches every style to plain ASCII output.
func SetNoColor(noColor bool) {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func (c *Console) Info(format string, args ...any) {
	c.print(styleInfo, "[INFO]", format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.print(styleWarn, "[WARN]", format, args...)
}

func (c *Console) Error(format string, args ...any) {
	c.print(styleError, "[ERROR]", format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.print(styleOK, "[OK]", format, args...)
}

func (c *Console) print(style lipgloss.Style, marker, format string, args ...any) {
	fmt.Fprintln(c.Out, style.Render(marker)+" "+fmt.Sprintf(format, args...))
}
