// Package pretty renders mdcore's terminal output with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indices.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorGrey   = "8"
	colorLight  = "7"
)

// Styles holds the renderers used by reporters, structure listings and help.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Broken link lines.
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Code       lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Heading and outline listings.
	Number lipgloss.Style
	Label  lipgloss.Style
	Anchor lipgloss.Style
	Kind   lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles builds the style set. With color disabled every style renders
// its input unchanged.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(color string) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return plain.Foreground(lipgloss.Color(color))
	}
	bold := func(style lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return style
		}
		return style.Bold(true)
	}

	return &Styles{
		Error:   bold(fg(colorRed)),
		Warning: bold(fg(colorYellow)),

		FilePath:   bold(plain),
		Location:   fg(colorGrey),
		Code:       fg(colorGrey),
		Message:    plain,
		SourceLine: fg(colorLight),
		Caret:      fg(colorRed),

		Number: fg(colorCyan),
		Label:  plain,
		Anchor: fg(colorGrey),
		Kind:   fg(colorBlue),

		SummaryTitle: bold(plain),
		SummaryValue: plain,
		Success:      bold(fg(colorGreen)),
		Failure:      bold(fg(colorRed)),

		TableHeader:    bold(fg(colorLight)),
		TableSeparator: fg(colorGrey),

		Dim:  fg(colorGrey),
		Bold: bold(plain),
	}
}

// IsColorEnabled resolves a --color mode ("auto", "always" or "never")
// against writer. Auto honours NO_COLOR and FORCE_COLOR, then enables color
// only for terminals. Unknown modes behave like auto.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
