package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Terminal reporters buffer their output in chunks of this size.
const bufWriterSize = 64 << 10

// Options configures a Reporter. The zero value of each field falls back
// to DefaultOptions where New fills it in.
type Options struct {
	Writer      io.Writer
	Format      Format
	Color       string // auto, always or never
	ShowContext bool   // print the source line under each broken link
	ShowSummary bool   // print run totals after the findings
	Compact     bool   // single-line JSON
	WorkingDir  string // paths below it are shown relative
	ToolVersion string // recorded in JSON and SARIF output
}

// DefaultOptions returns the options used by the validate command.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		ToolVersion: "dev",
	}
}

// displayPath shortens path relative to WorkingDir, keeping it absolute
// when it lies outside. Separators are always forward slashes.
func (o Options) displayPath(path string) string {
	if o.WorkingDir != "" && filepath.IsAbs(path) {
		rel, err := filepath.Rel(o.WorkingDir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
