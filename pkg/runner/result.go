package runner

import (
	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/pkg/linkcheck"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// FileOutcome is what validating one file produced. Exactly one of
// Document and Error is set.
type FileOutcome struct {
	Path     string
	Snapshot textbuf.ID // parsed text version
	Document *mdast.Document
	Links    []linkcheck.Error // broken links, in document order
	Error    error             // read or parse failure
}

// Stats totals a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int // parsed and validated
	FilesErrored    int // unreadable or unparsable
	FilesWithIssues int // at least one broken link
	ErrorsTotal     int // broken links
	FatalTotal      int // broken links that fail the run
}

// Result holds every file outcome, ordered by path, with the run totals.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports a fatal broken link or an unreadable file.
func (r *Result) HasFailures() bool {
	return r != nil && (r.Stats.FatalTotal > 0 || r.Stats.FilesErrored > 0)
}

// HasIssues reports any broken link.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.ErrorsTotal > 0
}

func (r *Result) add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if n := len(outcome.Links); n > 0 {
		r.Stats.FilesWithIssues++
		r.Stats.ErrorsTotal += n
		r.Stats.FatalTotal += lo.CountBy(outcome.Links, func(e linkcheck.Error) bool { return e.Fatal })
	}
}
