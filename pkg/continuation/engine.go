// Package continuation decides what happens when the user presses Enter at
// the end of a list, quote or footer line, and produces the edits that
// continue or close the structure.
package continuation

import (
	"bytes"
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/structure"
	"github.com/yaklabco/mdcore/pkg/textedit"
)

// ActionKind distinguishes continuing a structure from closing it.
type ActionKind int

const (
	// ActionContinue inserts a newline, then the continuation prefix.
	ActionContinue ActionKind = iota

	// ActionErase replaces the empty caret line with the prefix of the
	// enclosing structure, dropping the innermost empty item.
	ActionErase
)

// String returns the action name.
func (k ActionKind) String() string {
	if k == ActionErase {
		return "erase"
	}
	return "continue"
}

// Action is the result of pressing Enter on a smart block line.
type Action struct {
	Kind ActionKind

	// Edits apply in order; each edit's offsets refer to the text produced
	// by the edits before it. A continue action has two edits so the
	// newline and the prefix can be undone separately.
	Edits []textedit.TextEdit

	// Prefix is the inserted continuation text, including the line indent.
	Prefix string

	// Caret is the caret offset after all edits are applied.
	Caret int
}

// Engine produces continuation actions. An Engine is safe for concurrent use.
type Engine struct {
	smart   *structure.SmartBlocks
	enabled atomic.Bool
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEnabled sets whether the engine starts enabled. Engines are enabled
// by default.
func WithEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.enabled.Store(enabled)
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine that parses caret lines with parser.
func New(parser structure.Parser, opts ...Option) *Engine {
	e := &Engine{
		smart:  structure.NewSmartBlocks(parser),
		logger: logging.Default(),
	}
	e.enabled.Store(true)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether continuation runs.
func (e *Engine) Enabled() bool {
	return e.enabled.Load()
}

// SetEnabled turns continuation on or off.
func (e *Engine) SetEnabled(enabled bool) {
	e.enabled.Store(enabled)
}

// OnEnter returns the action for pressing Enter at caret in text. It
// returns false when the engine is disabled or the caret line is not a
// smart block; the host then inserts a plain newline.
//
// A line whose innermost block is an empty container, or a paragraph
// holding only a task box, is erased back to the prefix of the structure
// enclosing the empty item. Any other line is continued.
func (e *Engine) OnEnter(ctx context.Context, text []byte, caret int) (Action, bool) {
	if !e.Enabled() {
		return Action{}, false
	}

	caret = min(max(caret, 0), len(text))
	pending := e.smart.TryParsePending(ctx, text, caret)
	if pending == nil {
		return Action{}, false
	}

	if terminal := terminalNode(pending); terminal != nil {
		return e.erase(pending, terminal, caret), true
	}

	return e.continueLine(text, pending, caret), true
}

func (e *Engine) continueLine(text []byte, pending *structure.PendingBlock, caret int) Action {
	newline := newlineFor(text, caret)
	prefix := pending.Indent + BuildContinuationText(pending.First(), pending.Deepest())

	edits := textedit.NewBuilder().
		Insert(caret, newline).
		Insert(caret+len(newline), prefix).
		Edits

	e.logger.Debug("continue block", "line", pending.Line, "prefix", prefix)

	return Action{
		Kind:   ActionContinue,
		Edits:  edits,
		Prefix: prefix,
		Caret:  caret + len(newline) + len(prefix),
	}
}

func (e *Engine) erase(pending *structure.PendingBlock, terminal *mdast.Node, caret int) Action {
	path := pending.Path
	cut := len(path)
	for i, n := range path {
		if n == terminal {
			cut = i
			break
		}
	}
	if terminal.Kind == mdast.NodeListItem && cut > 0 && path[cut-1].Kind == mdast.NodeList {
		cut--
	}

	prefix := pending.Indent + buildPrefix(path[:cut], false)
	edits := textedit.NewBuilder().
		Replace(pending.LineStart, caret, prefix).
		Edits

	e.logger.Debug("erase empty block", "line", pending.Line, "prefix", prefix)

	return Action{
		Kind:   ActionErase,
		Edits:  edits,
		Prefix: prefix,
		Caret:  pending.LineStart + len(prefix),
	}
}

// terminalNode returns the container to drop when the caret line is empty,
// or nil when the line has content and should be continued.
func terminalNode(pending *structure.PendingBlock) *mdast.Node {
	leaf := pending.Leaf()
	if leaf == nil {
		return pending.Deepest()
	}
	if !isEmptyTask(leaf) {
		return nil
	}

	for i := len(pending.Path) - 1; i >= 0; i-- {
		if pending.Path[i].Kind == mdast.NodeListItem {
			return pending.Path[i]
		}
	}
	return leaf
}

// newlineFor returns the line terminator used around caret, "\n" by default.
func newlineFor(text []byte, caret int) string {
	if idx := bytes.IndexByte(text[caret:], '\n'); idx >= 0 {
		if idx > 0 && text[caret+idx-1] == '\r' {
			return "\r\n"
		}
		return "\n"
	}
	if idx := bytes.IndexByte(text, '\n'); idx > 0 && text[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
