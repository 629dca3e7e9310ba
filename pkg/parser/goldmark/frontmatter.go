package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// KindFrontMatter is the goldmark node kind for YAML front matter.
var KindFrontMatter = ast.NewNodeKind("FrontMatter")

// FrontMatterBlock holds the raw lines between the "---" fences at the very
// start of a document.
type FrontMatterBlock struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *FrontMatterBlock) Kind() ast.NodeKind {
	return KindFrontMatter
}

// IsRaw keeps the inline parser away from the YAML body.
func (n *FrontMatterBlock) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *FrontMatterBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type frontMatterParser struct{}

// NewFrontMatterParser returns a block parser for YAML front matter.
// It only opens on the first line of a document and only when a closing
// "---" or "..." line follows; otherwise "---" keeps its CommonMark meaning.
//
//nolint:ireturn // goldmark registers parsers by interface
func NewFrontMatterParser() parser.BlockParser {
	return &frontMatterParser{}
}

func (b *frontMatterParser) Trigger() []byte {
	return []byte{'-'}
}

//nolint:ireturn // goldmark parser contract
func (b *frontMatterParser) Open(parent ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	if _, ok := parent.(*ast.Document); !ok {
		return nil, parser.NoChildren
	}

	lineNum, segment := reader.Position()
	if lineNum != 0 || segment.Start != 0 {
		return nil, parser.NoChildren
	}

	line, _ := reader.PeekLine()
	if !isFrontMatterFence(line, false) {
		return nil, parser.NoChildren
	}

	if !hasClosingFence(reader.Source(), len(line)) {
		return nil, parser.NoChildren
	}

	return &FrontMatterBlock{}, parser.NoChildren
}

func (b *frontMatterParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if isFrontMatterFence(line, true) {
		reader.Advance(segment.Len())
		return parser.Close
	}

	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (b *frontMatterParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (b *frontMatterParser) CanInterruptParagraph() bool {
	return false
}

func (b *frontMatterParser) CanAcceptIndentedLine() bool {
	return false
}

// isFrontMatterFence reports whether line is "---", or "..." when closing.
func isFrontMatterFence(line []byte, closing bool) bool {
	trimmed := bytes.TrimRight(line, " \t\r\n")
	if bytes.Equal(trimmed, []byte("---")) {
		return true
	}
	return closing && bytes.Equal(trimmed, []byte("..."))
}

// hasClosingFence scans the lines after the opening fence.
func hasClosingFence(source []byte, from int) bool {
	rest := source[min(from, len(source)):]
	for len(rest) > 0 {
		line := rest
		if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
			line = rest[:idx+1]
		}
		if isFrontMatterFence(line, true) {
			return true
		}
		rest = rest[len(line):]
	}
	return false
}

// decodeFrontMatter decodes a YAML body into a map.
// Empty or malformed bodies yield nil.
func decodeFrontMatter(body []byte) map[string]any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var data map[string]any
	if err := yaml.Unmarshal(body, &data); err != nil {
		return nil
	}

	return data
}
