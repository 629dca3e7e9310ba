package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/mdcore/internal/ui/pretty"
	"github.com/yaklabco/mdcore/pkg/runner"
)

// fallbackWidth is assumed when the writer is not a terminal.
const fallbackWidth = 100

// terminal holds what the human-readable reporters share: the styles picked
// for the writer and a buffered view of it.
type terminal struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

func newTerminal(opts Options) terminal {
	return terminal{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// render buffers everything body writes, then appends the one-line summary
// when enabled. A nil or empty result short-circuits to a notice.
func (t terminal) render(result *runner.Result, body func(w *bufio.Writer) int) (_ int, err error) {
	bw := bufio.NewWriterSize(t.out, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if t.opts.ShowSummary {
			fmt.Fprintln(bw, t.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	count := body(bw)
	if t.opts.ShowSummary {
		fmt.Fprint(bw, t.styles.FormatSummaryOneLine(result.Stats))
	}
	return count, nil
}

// TextReporter prints broken links grouped under a header per file, with the
// offending source line when ShowContext is set.
type TextReporter struct {
	terminal
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{terminal: newTerminal(opts)}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	return r.render(result, func(w *bufio.Writer) int {
		var count int
		for _, file := range result.Files {
			path := r.opts.displayPath(file.Path)

			switch {
			case file.Error != nil:
				fmt.Fprintf(w, "%s: %s\n",
					r.styles.FilePath.Render(path),
					r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
				continue
			case len(file.Links) == 0:
				continue
			}

			fmt.Fprintln(w, r.styles.FormatFileHeader(path, len(file.Links)))
			for _, e := range file.Links {
				var source string
				if r.opts.ShowContext {
					source = sourceLine(file, e.Line)
				}
				e.File = path
				fmt.Fprint(w, r.styles.FormatLinkError(e, r.opts.ShowContext, source))
				count++
			}
			fmt.Fprintln(w)
		}
		return count
	})
}

// TableReporter prints one table row per broken link.
type TableReporter struct {
	terminal
	table *pretty.TableFormatter
}

// NewTableReporter creates a table reporter sized to the writer.
func NewTableReporter(opts Options) *TableReporter {
	t := newTerminal(opts)
	return &TableReporter{
		terminal: t,
		table:    pretty.NewTableFormatter(t.styles, TerminalWidth(opts.Writer)),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	total := countLinks(result)
	if total == 0 && result != nil && len(result.Files) > 0 {
		if r.opts.ShowSummary {
			_, err := fmt.Fprintf(r.out, "%s\n%s\n",
				r.styles.Success.Render("All links resolve!"),
				r.styles.Dim.Render(fmt.Sprintf("%d files checked", result.Stats.FilesProcessed)))
			if err != nil {
				return 0, fmt.Errorf("write table: %w", err)
			}
		}
		return 0, nil
	}

	return r.render(result, func(w *bufio.Writer) int {
		display := *result
		display.Files = make([]runner.FileOutcome, len(result.Files))
		for i, file := range result.Files {
			file.Path = r.opts.displayPath(file.Path)
			display.Files[i] = file
		}
		fmt.Fprint(w, r.table.FormatLinkTable(&display))
		return total
	})
}

// TerminalWidth reports the column count of writer when it is a terminal,
// or a fixed fallback otherwise.
func TerminalWidth(writer io.Writer) int {
	f, ok := writer.(interface{ Fd() uintptr })
	if !ok {
		return fallbackWidth
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return fallbackWidth
}
