package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.Color("#08bdba")
	teal   = lipgloss.Color("#3ddbd9")
	blue1  = lipgloss.Color("#78a9ff")
	pink   = lipgloss.Color("#ee5396")
	green  = lipgloss.Color("#42be65")
	purple = lipgloss.Color("#be95ff")
	blue2  = lipgloss.Color("#33b1ff")
	pink2  = lipgloss.Color("#ff7eb6")
	muted  = lipgloss.Color("#525252")
)

// Styles wraps the lipgloss styles for the application.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Path    lipgloss.Style
	Label   lipgloss.Style
	Pinned  lipgloss.Style
}

// NewStyles returns a new Styles struct with Oxocarbon defaults.
func NewStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Foreground(purple).Bold(true),
		Success: lipgloss.NewStyle().Foreground(green),
		Error:   lipgloss.NewStyle().Foreground(pink2),
		Warning: lipgloss.NewStyle().Foreground(pink),
		Info:    lipgloss.NewStyle().Foreground(blue1),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Accent:  lipgloss.NewStyle().Foreground(cyan),
		Path:    lipgloss.NewStyle().Foreground(teal),
		Label:   lipgloss.NewStyle().Foreground(blue2),
		Pinned:  lipgloss.NewStyle().Foreground(purple).Bold(true),
	}
}

// Printer provides helper methods for printing formatted output.
type Printer struct {
	Styles *Styles
	out    io.Writer
	err    io.Writer
}

// NewPrinter creates a new Printer with default Oxocarbon styles.
func NewPrinter() *Printer {
	return &Printer{Styles: NewStyles(), out: os.Stdout, err: os.Stderr}
}

// SetOutput points the printer at a command's streams.
func (p *Printer) SetOutput(out, err io.Writer) {
	p.out, p.err = out, err
}

// PrintHeader prints a bold header message.
func (p *Printer) PrintHeader(msg string) {
	if quiet {
		return
	}
	fmt.Fprintln(p.out, p.Styles.Header.Render(msg))
}

// PrintSuccess prints a success message with a checkmark.
func (p *Printer) PrintSuccess(msg string) {
	if quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.Styles.Success.Render("✔"), msg)
}

// PrintError prints an error message to stderr with a cross.
func (p *Printer) PrintError(msg string) {
	fmt.Fprintf(p.err, "%s %s\n", p.Styles.Error.Render("✘"), msg)
}

// PrintWarning prints a warning message with an exclamation.
func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintf(p.err, "%s %s\n", p.Styles.Warning.Render("⚠"), msg)
}

// PrintInfo prints an info message with an 'i' symbol.
func (p *Printer) PrintInfo(msg string) {
	if quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.Styles.Info.Render("ℹ"), msg)
}

// PrintListItem prints a muted label with a value.
func (p *Printer) PrintListItem(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.Styles.Muted.Render(label), value)
}

// FormatPath formats a file path.
func (p *Printer) FormatPath(path string) string {
	return p.Styles.Path.Render(path)
}

// FormatLabel formats a label name; pinned stands out.
func (p *Printer) FormatLabel(name string) string {
	if name == "pinned" {
		return p.Styles.Pinned.Render(name)
	}
	return p.Styles.Label.Render(name)
}
