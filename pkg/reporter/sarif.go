package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/pkg/linkcheck"
	"github.com/yaklabco/mdcore/pkg/runner"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
	toolURI        = "https://github.com/yaklabco/mdcore"
)

// SARIFOutput is a SARIF 2.1.0 log holding a single run.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun lists the checked files and one result per broken link.
type SARIFRun struct {
	Tool      SARIFTool       `json:"tool"`
	Artifacts []SARIFArtifact `json:"artifacts,omitempty"`
	Results   []SARIFResult   `json:"results"`
}

// SARIFTool identifies mdcore and the error codes it reported.
type SARIFTool struct {
	Driver struct {
		Name           string      `json:"name"`
		Version        string      `json:"version"`
		InformationURI string      `json:"informationUri"`
		Rules          []SARIFRule `json:"rules"`
	} `json:"driver"`
}

// SARIFRule describes one link error code.
type SARIFRule struct {
	ID               string    `json:"id"`
	ShortDescription SARIFText `json:"shortDescription"`
	DefaultConfig    struct {
		Level string `json:"level"`
	} `json:"defaultConfiguration"`
}

// SARIFText is a plain-text message object.
type SARIFText struct {
	Text string `json:"text"`
}

// SARIFArtifact names a file that was checked.
type SARIFArtifact struct {
	Location SARIFArtifactLocation `json:"location"`
}

// SARIFArtifactLocation is a file URI relative to the working directory.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFResult is one broken link.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFText       `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFLocation points at the link destination in its file.
type SARIFLocation struct {
	PhysicalLocation struct {
		ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
		Region           SARIFRegion           `json:"region"`
	} `json:"physicalLocation"`
}

// SARIFRegion uses 1-based lines and columns plus the byte range.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	CharOffset  int `json:"charOffset"`
	CharLength  int `json:"charLength"`
}

// SARIFReporter writes results as a SARIF log for code scanning tools.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{opts: opts, out: opts.Writer}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	run := r.buildRun(result)

	err := writeJSON(r.out, SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}, r.opts.Compact)
	if err != nil {
		return 0, fmt.Errorf("sarif: %w", err)
	}

	return len(run.Results), nil
}

func (r *SARIFReporter) buildRun(result *runner.Result) SARIFRun {
	var run SARIFRun
	run.Tool.Driver.Name = "mdcore"
	run.Tool.Driver.Version = r.opts.ToolVersion
	run.Tool.Driver.InformationURI = toolURI
	run.Results = []SARIFResult{}

	if result == nil {
		run.Tool.Driver.Rules = []SARIFRule{}
		return run
	}

	var broken []linkcheck.Error
	for _, file := range result.Files {
		uri := r.opts.displayPath(file.Path)
		run.Artifacts = append(run.Artifacts, SARIFArtifact{Location: SARIFArtifactLocation{URI: uri}})

		for _, e := range file.Links {
			broken = append(broken, e)
			run.Results = append(run.Results, sarifResult(e, uri))
		}
	}

	run.Tool.Driver.Rules = lo.Map(
		lo.UniqBy(broken, func(e linkcheck.Error) string { return e.ErrorCode }),
		func(e linkcheck.Error, _ int) SARIFRule {
			rule := SARIFRule{ID: e.ErrorCode, ShortDescription: SARIFText{Text: codeDescription(e.ErrorCode)}}
			rule.DefaultConfig.Level = sarifLevel(e)
			return rule
		},
	)

	return run
}

func sarifResult(e linkcheck.Error, uri string) SARIFResult {
	var loc SARIFLocation
	loc.PhysicalLocation.ArtifactLocation.URI = uri
	loc.PhysicalLocation.Region = SARIFRegion{
		StartLine:   e.Line + 1,
		StartColumn: e.Column + 1,
		CharOffset:  e.Span.Start,
		CharLength:  e.Span.Len,
	}

	return SARIFResult{
		RuleID:    e.ErrorCode,
		Level:     sarifLevel(e),
		Message:   SARIFText{Text: e.Message},
		Locations: []SARIFLocation{loc},
	}
}

// sarifLevel is "error" for links that fail validation outright and
// "warning" for the rest.
func sarifLevel(e linkcheck.Error) string {
	if e.Fatal {
		return "error"
	}
	return "warning"
}

func codeDescription(code string) string {
	if code == linkcheck.CodeMissingFile {
		return "Link target file does not exist"
	}
	return "Broken link"
}
