package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdcore/pkg/linkcheck"
)

// contextIndent lines source excerpts up under the diagnostic text.
const contextIndent = "        "

// FormatLinkError renders one broken link as
// "path:line:col  severity  message  (code)", 1-based, optionally followed
// by the offending source line and a caret under the link.
func (s *Styles) FormatLinkError(e linkcheck.Error, showContext bool, sourceLine string) string {
	out := fmt.Sprintf("  %s:%d:%d  %s  %s  %s\n",
		s.FilePath.Render(e.File), e.Line+1, e.Column+1,
		s.FormatSeverity(e.Fatal),
		s.Message.Render(e.Message),
		s.Code.Render("("+e.ErrorCode+")"))

	if showContext && sourceLine != "" {
		out += s.FormatSourceContext(sourceLine, e.Column+1)
	}
	return out
}

// FormatSeverity labels fatal errors "error" and the rest "warning".
func (s *Styles) FormatSeverity(fatal bool) string {
	if fatal {
		return s.Error.Render("error")
	}
	return s.Warning.Render("warning")
}

// FormatSourceContext renders line and, for a positive 1-based column, a
// caret beneath it.
func (s *Styles) FormatSourceContext(line string, column int) string {
	out := contextIndent + s.SourceLine.Render(line) + "\n"
	if column < 1 {
		return out
	}
	return out + contextIndent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n"
}

// FormatFileHeader renders path, with an issue count when there are any.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	if issueCount == 0 {
		return s.FilePath.Render(path)
	}
	return s.FilePath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
}
