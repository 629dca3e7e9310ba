// Package runner parses and validates many Markdown files at once through
// a shared session.
package runner

import (
	"strings"

	"github.com/samber/lo"
)

// Options selects the files of a run and how they are processed.
type Options struct {
	Paths      []string // files or directories; defaults to "."
	WorkingDir string   // base for relative Paths and globs; defaults to the process directory

	// Extensions are the Markdown file extensions to pick up from
	// directories. Case and a missing dot are normalised.
	Extensions []string

	// IncludeGlobs and ExcludeGlobs are doublestar patterns relative to
	// WorkingDir. An empty include list admits every Markdown file.
	IncludeGlobs []string
	ExcludeGlobs []string

	Jobs      int  // concurrent files; <= 0 means one per CPU
	SkipLinks bool // parse only
}

// DefaultExtensions returns the extensions used when Options.Extensions is
// empty.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return lo.Uniq(lo.Map(o.Extensions, func(ext string, _ int) string {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}))
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
