// Package reporter renders link validation results in the supported
// output formats.
package reporter

import (
	"cmp"
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/mdcore/pkg/runner"
)

// Reporter formats and writes validation results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of broken links reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

//nolint:gochecknoglobals // read-only constructor table
var constructors = map[Format]func(Options) Reporter{
	FormatText:    func(o Options) Reporter { return NewTextReporter(o) },
	FormatTable:   func(o Options) Reporter { return NewTableReporter(o) },
	FormatJSON:    func(o Options) Reporter { return NewJSONReporter(o) },
	FormatSARIF:   func(o Options) Reporter { return NewSARIFReporter(o) },
	FormatSummary: func(o Options) Reporter { return NewSummaryReporter(o) },
}

// New returns the reporter for opts.Format, filling unset options from
// DefaultOptions. An empty format selects text.
//
//nolint:ireturn // the concrete type depends on the format
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	opts.Writer = cmp.Or[io.Writer](opts.Writer, defaults.Writer)
	opts.ToolVersion = cmp.Or(opts.ToolVersion, defaults.ToolVersion)
	opts.Format = cmp.Or(opts.Format, FormatText)

	build, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return build(opts), nil
}

// countLinks counts the broken links across all files.
func countLinks(result *runner.Result) int {
	if result == nil {
		return 0
	}
	var total int
	for _, file := range result.Files {
		total += len(file.Links)
	}
	return total
}

// sourceLine returns the 0-based line of the file's parsed document.
func sourceLine(file runner.FileOutcome, line int) string {
	if file.Document == nil {
		return ""
	}
	return string(file.Document.LineContent(line))
}
