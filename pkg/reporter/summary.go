package reporter

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/internal/ui/pretty"
	"github.com/yaklabco/mdcore/pkg/runner"
)

// Summary table geometry, in columns.
const (
	summaryWidth = 80
	countWidth   = 7
	codeWidth    = 30
	fileWidth    = 60
)

// Tally is the broken link count for one error code or file.
type Tally struct {
	Key   string
	Count int
	Fatal int
}

// Breakdown aggregates broken links by error code and by file.
type Breakdown struct {
	ByCode []Tally
	ByFile []Tally
	Total  int
	Fatal  int
	Files  int
}

// Analyze aggregates result. Both tallies are sorted by descending count,
// ties broken by key.
func Analyze(result *runner.Result, opts Options) Breakdown {
	var out Breakdown
	if result == nil {
		return out
	}

	codes := map[string]*Tally{}
	for _, file := range result.Files {
		if len(file.Links) == 0 {
			continue
		}

		perFile := Tally{Key: opts.displayPath(file.Path)}
		for _, e := range file.Links {
			code := codes[e.ErrorCode]
			if code == nil {
				code = &Tally{Key: e.ErrorCode}
				codes[e.ErrorCode] = code
			}
			fatal := lo.Ternary(e.Fatal, 1, 0)
			code.Count++
			code.Fatal += fatal
			perFile.Count++
			perFile.Fatal += fatal
			out.Fatal += fatal
			out.Total++
		}
		out.ByFile = append(out.ByFile, perFile)
		out.Files++
	}

	out.ByCode = lo.MapToSlice(codes, func(_ string, t *Tally) Tally { return *t })

	byCount := func(a, b Tally) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Key, b.Key))
	}
	slices.SortFunc(out.ByCode, byCount)
	slices.SortFunc(out.ByFile, byCount)

	return out
}

// SummaryReporter prints per-code and per-file tallies instead of the
// individual links.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	breakdown := Analyze(result, r.opts)

	var b strings.Builder
	if breakdown.Total == 0 {
		b.WriteString(r.styles.Success.Render("No broken links") + "\n")
	} else {
		r.table(&b, "Codes Summary", "Code", codeWidth, breakdown.ByCode)
		r.table(&b, "Files Summary", "File", fileWidth, breakdown.ByFile)
		r.totals(&b, breakdown)
	}
	if r.opts.ShowSummary && result != nil {
		b.WriteString(r.styles.FormatSummary(result.Stats))
	}

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}
	return breakdown.Total, nil
}

func (r *SummaryReporter) table(b *strings.Builder, title, keyTitle string, keyWidth int, rows []Tally) {
	key := lipgloss.NewStyle().Width(keyWidth)
	num := lipgloss.NewStyle().Width(countWidth).Align(lipgloss.Right)
	rule := r.styles.TableSeparator.Render(strings.Repeat("─", summaryWidth))

	fmt.Fprintf(b, "%s\n%s\n%s %s %s\n%s\n",
		r.styles.Bold.Render(title),
		rule,
		r.styles.TableHeader.Render(key.Render(keyTitle)),
		r.styles.TableHeader.Render(num.Render("Count")),
		r.styles.TableHeader.Render(num.Render("Fatal")),
		rule)

	for _, row := range rows {
		cell := key.Render(truncateLeft(row.Key, keyWidth-2))
		if row.Fatal > 0 {
			cell = r.styles.Error.Render(cell)
		}
		fmt.Fprintf(b, "%s %s %s\n", cell, num.Render(strconv.Itoa(row.Count)), num.Render(strconv.Itoa(row.Fatal)))
	}
	b.WriteString("\n")
}

func (r *SummaryReporter) totals(b *strings.Builder, bd Breakdown) {
	line := fmt.Sprintf("%d %s in %d %s",
		bd.Total, lo.Ternary(bd.Total == 1, "broken link", "broken links"),
		bd.Files, lo.Ternary(bd.Files == 1, "file", "files"))
	if bd.Fatal > 0 {
		line += " (" + r.styles.Error.Render(fmt.Sprintf("%d fatal", bd.Fatal)) + ")"
	}
	b.WriteString(r.styles.Bold.Render("Total: ") + line + "\n")
}

// truncateLeft keeps the last limit-1 bytes of s behind an ellipsis when s
// is longer than limit.
func truncateLeft(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return "…" + s[len(s)-(limit-1):]
}
