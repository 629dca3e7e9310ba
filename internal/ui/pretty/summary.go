package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/pkg/runner"
)

const dividerWidth = 40

// counted renders "1 file" or "3 files".
func counted(n int, noun string) string {
	return strconv.Itoa(n) + " " + noun + lo.Ternary(n == 1, "", "s")
}

// FormatSummaryOneLine renders stats on one line, for example
// "3 broken links in 2 files (12 files checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	tail := s.Dim.Render(" (" + counted(stats.FilesProcessed, "file") + " checked)")

	var parts []string
	if stats.ErrorsTotal > 0 {
		parts = append(parts,
			s.Warning.Render(counted(stats.ErrorsTotal, "broken link"))+" in "+counted(stats.FilesWithIssues, "file"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts,
			s.Error.Render(strconv.Itoa(stats.FilesErrored)+" unreadable "+lo.Ternary(stats.FilesErrored == 1, "file", "files")))
	}
	if len(parts) == 0 {
		parts = append(parts, s.Success.Render("No broken links"))
	}

	return strings.Join(parts, ", ") + tail + "\n"
}

// FormatSummary renders stats as a labelled block followed by a verdict.
// Rows with a zero count for issues or unreadable files are omitted.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	rows := []struct {
		label string
		value int
		style lipgloss.Style
		show  bool
	}{
		{"Files checked:", stats.FilesProcessed, s.SummaryValue, true},
		{"Files with issues:", stats.FilesWithIssues, s.Failure, stats.FilesWithIssues > 0},
		{"Files unreadable:", stats.FilesErrored, s.Error, stats.FilesErrored > 0},
		{"Broken links:", stats.ErrorsTotal, s.SummaryValue, true},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n%s\n", s.SummaryTitle.Render("Summary"), strings.Repeat("-", dividerWidth))
	for _, row := range rows {
		if row.show {
			fmt.Fprintf(&b, "  %-18s %s\n", row.label, row.style.Render(strconv.Itoa(row.value)))
		}
	}

	var verdict string
	switch {
	case stats.FatalTotal > 0 || stats.FilesErrored > 0:
		verdict = s.Failure.Render("Validation failed")
	case stats.ErrorsTotal > 0:
		verdict = s.Warning.Render("Validation completed with broken links")
	default:
		verdict = s.Success.Render("Validation passed")
	}
	fmt.Fprintf(&b, "\n%s\n", verdict)

	return b.String()
}
