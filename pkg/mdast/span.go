package mdast

// Span is a half-open byte range [Start, Start+Len) in the source content.
type Span struct {
	Start int
	Len   int
}

// NewSpan creates a span from start and end offsets.
// An end before start yields an empty span at start.
func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Len: end - start}
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Start + s.Len
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Len == 0
}

// Contains returns true if the given offset is within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// Covers returns true if other lies entirely within s.
func (s Span) Covers(other Span) bool {
	return other.Start >= s.Start && other.End() <= s.End()
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	return NewSpan(min(s.Start, other.Start), max(s.End(), other.End()))
}

// Slice returns the bytes of content covered by the span, clamped to content.
func (s Span) Slice(content []byte) []byte {
	start := min(max(s.Start, 0), len(content))
	end := min(max(s.End(), start), len(content))
	return content[start:end]
}

// Position is a 0-based line and column in a document.
// Column counts bytes, not runes.
type Position struct {
	Line   int
	Column int
}

// End returns the exclusive end offset of the node's span.
func (n *Node) End() int {
	return n.Span.End()
}

// Text returns the source text for this node.
// Returns nil if the node has no associated document.
func (n *Node) Text() []byte {
	if n.Doc == nil {
		return nil
	}
	return n.Span.Slice(n.Doc.Content)
}

// EndPosition returns the 0-based position of the node's exclusive end.
func (n *Node) EndPosition() Position {
	if n.Doc == nil {
		return Position{}
	}
	line, col := n.Doc.LineAt(n.Span.End())
	return Position{Line: line, Column: col}
}
