package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/pkg/linkcheck"
	"github.com/yaklabco/mdcore/pkg/runner"
)

// JSONOutput is the document written by the json format.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult lists one file's broken links, or the error that stopped
// it from being checked.
type JSONFileResult struct {
	Path  string     `json:"path"`
	Links []JSONLink `json:"links"`
	Error string     `json:"error,omitempty"`
}

// JSONLink is one broken link. Lines and columns are 1-based; offsets are
// byte offsets into the file.
type JSONLink struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Fatal       bool   `json:"fatal"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

// JSONSummary totals the run.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	TotalLinks      int            `json:"totalLinks"`
	Fatal           int            `json:"fatal"`
	ByCode          map[string]int `json:"byCode"`
}

// JSONReporter writes a JSONOutput document.
type JSONReporter struct {
	opts Options
}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.build(result)
	if err := writeJSON(r.opts.Writer, output, r.opts.Compact); err != nil {
		return 0, err
	}
	return output.Summary.TotalLinks, nil
}

func (r *JSONReporter) build(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: r.opts.ToolVersion,
		Files:   []JSONFileResult{},
		Summary: JSONSummary{ByCode: map[string]int{}},
	}
	if result == nil {
		return output
	}

	summary := &output.Summary
	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:  r.opts.displayPath(file.Path),
			Links: lo.Map(file.Links, func(e linkcheck.Error, _ int) JSONLink { return jsonLink(e) }),
		}

		if file.Error != nil {
			entry.Error = file.Error.Error()
			summary.FilesErrored++
		} else {
			summary.FilesChecked++
		}
		if len(file.Links) > 0 {
			summary.FilesWithIssues++
		}
		for _, e := range file.Links {
			summary.TotalLinks++
			summary.ByCode[e.ErrorCode]++
			if e.Fatal {
				summary.Fatal++
			}
		}

		output.Files = append(output.Files, entry)
	}

	return output
}

func jsonLink(e linkcheck.Error) JSONLink {
	return JSONLink{
		Code:        e.ErrorCode,
		Message:     e.Message,
		Fatal:       e.Fatal,
		StartLine:   e.Line + 1,
		StartColumn: e.Column + 1,
		StartOffset: e.Span.Start,
		EndOffset:   e.Span.End(),
	}
}

// writeJSON encodes v to w, indented unless compact.
func writeJSON(w io.Writer, v any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
