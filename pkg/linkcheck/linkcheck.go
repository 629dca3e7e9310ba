// Package linkcheck validates relative link targets in a parsed document
// against a filesystem.
package linkcheck

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-enry/go-enry/v2"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/mdast"
)

// CodeMissingFile is the error code for links whose target does not exist.
const CodeMissingFile = "missing-file"

// Error is a validation finding attached to a span of the document.
type Error struct {
	File      string
	Message   string
	Line      int // 0-based
	Column    int // 0-based
	Span      mdast.Span
	ErrorCode string
	Fatal     bool
}

// String formats the error as "file:line:col: message [code]" with 1-based
// positions.
func (e Error) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]", e.File, e.Line+1, e.Column+1, e.Message, e.ErrorCode)
}

// Validator checks link destinations. A Validator is safe for concurrent use.
type Validator struct {
	fs         afero.Fs
	extensions []string
	logger     *log.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithExtensions adds Markdown extensions tried for extensionless targets.
// A missing leading dot is added.
func WithExtensions(exts ...string) Option {
	return func(v *Validator) {
		for _, ext := range exts {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			v.extensions = append(v.extensions, ext)
		}
	}
}

// WithLogger sets the logger used for filesystem failures.
func WithLogger(l *log.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a Validator resolving targets on fsys. A nil fsys uses the
// operating system filesystem.
func New(fsys afero.Fs, opts ...Option) *Validator {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	v := &Validator{
		fs:         fsys,
		extensions: MarkdownExtensions(),
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.extensions = lo.Uniq(v.extensions)

	return v
}

// MarkdownExtensions returns the file extensions recognised as Markdown.
func MarkdownExtensions() []string {
	return lo.Uniq(append([]string{".md", ".markdown"}, enry.GetLanguageExtensions("Markdown")...))
}

// Extensions returns the extensions tried for extensionless targets.
func (v *Validator) Extensions() []string {
	return v.extensions
}

// Validate returns the broken links of doc, in document order. Relative
// targets resolve against the directory of filePath. The sequence is lazy
// and recomputed on every iteration.
func (v *Validator) Validate(doc *mdast.Document, filePath string) iter.Seq[Error] {
	return func(yield func(Error) bool) {
		if doc == nil || doc.Root == nil {
			return
		}

		for node := range links(doc.Root) {
			if v.Resolves(node.Inline.Link.Destination, filePath) {
				continue
			}
			if !yield(v.missingFile(doc, node, filePath)) {
				return
			}
		}
	}
}

// Resolves reports whether a link destination is acceptable for a
// document at filePath:
//   - absolute URLs, root-relative paths, fragments and mailto links pass;
//   - destinations containing a backslash fail;
//   - otherwise the path, without query and fragment, must exist next to
//     filePath, either as written or, when it has no extension, with one of
//     the Markdown extensions appended.
//
// Filesystem errors other than "not exist" are logged and treated as valid.
func (v *Validator) Resolves(destination, filePath string) bool {
	switch {
	case strings.Contains(destination, "://"),
		strings.HasPrefix(destination, "/"),
		strings.HasPrefix(destination, "#"),
		strings.HasPrefix(destination, "mailto:"):
		return true
	case strings.Contains(destination, `\`):
		return false
	}

	target := stripSuffixes(destination)
	if target == "" || filePath == "" {
		return true
	}
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}

	resolved := filepath.Join(filepath.Dir(filePath), filepath.FromSlash(target))

	exists, ok := v.exists(resolved)
	if !ok || exists {
		return true
	}

	if filepath.Ext(resolved) != "" {
		return false
	}
	for _, ext := range v.extensions {
		exists, ok := v.exists(resolved + ext)
		if !ok || exists {
			return true
		}
	}
	return false
}

// exists stats path. ok is false when the filesystem failed for a reason
// other than the path not existing.
func (v *Validator) exists(path string) (bool, bool) {
	_, err := v.fs.Stat(path)
	switch {
	case err == nil:
		return true, true
	case errors.Is(err, fs.ErrNotExist):
		return false, true
	default:
		v.logger.Warn("link target check failed",
			logging.FieldTarget, path,
			logging.FieldError, err,
		)
		return false, false
	}
}

func (v *Validator) missingFile(doc *mdast.Document, node *mdast.Node, filePath string) Error {
	link := node.Inline.Link

	span := node.Span
	if link.HasURLSpan {
		span = link.URLSpan
	}
	line, col := doc.LineAt(span.Start)

	return Error{
		File:      filePath,
		Message:   fmt.Sprintf("The file %q does not exist", stripSuffixes(link.Destination)),
		Line:      line,
		Column:    col,
		Span:      span,
		ErrorCode: CodeMissingFile,
		Fatal:     false,
	}
}

// links yields every link and image node with a destination, in document order.
func links(root *mdast.Node) iter.Seq[*mdast.Node] {
	return func(yield func(*mdast.Node) bool) {
		for n := range mdast.All(root) {
			if n.Kind != mdast.NodeLink && n.Kind != mdast.NodeImage {
				continue
			}
			if n.Inline == nil || n.Inline.Link == nil {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// stripSuffixes removes a "?query" and "#fragment" suffix.
func stripSuffixes(destination string) string {
	if idx := strings.IndexAny(destination, "?#"); idx >= 0 {
		return destination[:idx]
	}
	return destination
}
