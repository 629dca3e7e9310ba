package structure

import (
	"bytes"
	"context"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// Parser parses Markdown content into a Document.
// Implementations must be total: the only error is context cancellation.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error)
}

// IsSmartBlock reports whether n is a block kind that continues onto the
// next line when the user presses Enter: quote, list, footer, or
// non-fenced code.
func IsSmartBlock(n *mdast.Node) bool {
	if n == nil {
		return false
	}

	switch n.Kind {
	case mdast.NodeBlockquote, mdast.NodeList, mdast.NodeFooter:
		return true
	case mdast.NodeCodeBlock:
		return !n.IsFencedCode()
	default:
		return false
	}
}

// PendingBlock is a smart block found on the caret line.
type PendingBlock struct {
	// Indent is the leading whitespace stripped from the line before parsing.
	Indent string

	// Line is the caret line text from its start up to the caret, without
	// Indent.
	Line string

	// LineStart is the offset of the caret line in the buffer text.
	LineStart int

	// Document is the parse of Line.
	Document *mdast.Document

	// Path runs from the first top-level block down through the last child
	// at each level. It ends at the first non-container block, or at a
	// container with no children.
	Path []*mdast.Node
}

// First returns the first top-level block of the line.
func (p *PendingBlock) First() *mdast.Node {
	return p.Path[0]
}

// Deepest returns the last node of Path.
func (p *PendingBlock) Deepest() *mdast.Node {
	return p.Path[len(p.Path)-1]
}

// Leaf returns the non-container block Path ends in, or nil when Path ends
// in an empty container.
func (p *PendingBlock) Leaf() *mdast.Node {
	if deepest := p.Deepest(); !deepest.IsContainer() {
		return deepest
	}
	return nil
}

// SmartBlocks classifies single lines by re-parsing them in isolation.
type SmartBlocks struct {
	parser Parser
}

// NewSmartBlocks creates a classifier backed by parser.
func NewSmartBlocks(parser Parser) *SmartBlocks {
	return &SmartBlocks{parser: parser}
}

// Match reports whether line, with leading whitespace stripped, starts a
// smart block.
func (s *SmartBlocks) Match(ctx context.Context, line []byte) bool {
	doc := s.parseLine(ctx, bytes.TrimLeft(line, " \t"))
	return doc != nil && IsSmartBlock(doc.FirstBlock())
}

// TryParsePending parses the line holding caret in text and returns the
// block path of the line, or nil when the line is not a smart block.
func (s *SmartBlocks) TryParsePending(ctx context.Context, text []byte, caret int) *PendingBlock {
	caret = min(max(caret, 0), len(text))
	lineStart := bytes.LastIndexByte(text[:caret], '\n') + 1

	raw := text[lineStart:caret]
	line := bytes.TrimLeft(raw, " \t")
	indent := raw[:len(raw)-len(line)]

	doc := s.parseLine(ctx, line)
	if doc == nil {
		return nil
	}

	first := doc.FirstBlock()
	if !IsSmartBlock(first) {
		return nil
	}

	return &PendingBlock{
		Indent:    string(indent),
		Line:      string(line),
		LineStart: lineStart,
		Document:  doc,
		Path:      blockPath(first),
	}
}

func (s *SmartBlocks) parseLine(ctx context.Context, line []byte) *mdast.Document {
	line = bytes.TrimRight(line, "\r\n")
	doc, err := s.parser.Parse(ctx, "", line)
	if err != nil {
		return nil
	}
	return doc
}

// blockPath follows the last child of each container starting at first.
func blockPath(first *mdast.Node) []*mdast.Node {
	path := []*mdast.Node{first}
	for node := first; node.IsContainer() && node.LastChild != nil; {
		node = node.LastChild
		path = append(path, node)
	}
	return path
}
