package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// lineEnd returns the offset of the line terminator at or after pos
// ("\r" of a CRLF pair), or len(src) on the last line.
func (m *mapper) lineEnd(pos int) int {
	pos = m.clamp(pos)
	idx := bytes.IndexByte(m.src[pos:], '\n')
	if idx < 0 {
		return len(m.src)
	}
	end := pos + idx
	if end > pos && m.src[end-1] == '\r' {
		end--
	}
	return end
}

// nextLine returns the start of the line after the one containing pos,
// or len(src) when pos is on the last line.
func (m *mapper) nextLine(pos int) int {
	pos = m.clamp(pos)
	idx := bytes.IndexByte(m.src[pos:], '\n')
	if idx < 0 {
		return len(m.src)
	}
	return pos + idx + 1
}

// isLineStart reports whether pos is the first byte of a line.
func (m *mapper) isLineStart(pos int) bool {
	return pos <= 0 || (pos <= len(m.src) && m.src[pos-1] == '\n')
}

// trimRight moves end back over trailing whitespace, never below start.
func (m *mapper) trimRight(start, end int) int {
	end = m.clamp(end)
	for end > start {
		switch m.src[end-1] {
		case ' ', '\t', '\r', '\n':
			end--
		default:
			return end
		}
	}
	return max(end, min(start, len(m.src)))
}

// skipSpaces advances pos over spaces and tabs.
func (m *mapper) skipSpaces(pos int) int {
	pos = m.clamp(pos)
	for pos < len(m.src) && (m.src[pos] == ' ' || m.src[pos] == '\t') {
		pos++
	}
	return pos
}

// skipPrefix advances a line-start position over the markers of the
// enclosing quote and footer blocks. Lazy lines may omit some markers.
func (m *mapper) skipPrefix(pos int) int {
	for _, marker := range m.markers {
		p := m.skipSpaces(pos)
		switch {
		case marker == '>' && p < len(m.src) && m.src[p] == '>':
			pos = p + 1
		case marker == '^' && bytes.HasPrefix(m.src[p:], []byte("^^")):
			pos = p + 2
		default:
			return pos
		}
	}
	return pos
}

// scanStart finds the first content byte at or after lowerBound, skipping
// blank lines and the container prefix of every new line.
func (m *mapper) scanStart(lowerBound int) int {
	pos := m.clamp(lowerBound)
	atLineStart := m.isLineStart(pos)

	for pos < len(m.src) {
		if atLineStart {
			pos = m.skipPrefix(pos)
		}
		pos = m.skipSpaces(pos)
		if pos < len(m.src) && (m.src[pos] == '\n' || m.src[pos] == '\r') {
			pos = m.nextLine(pos)
			atLineStart = true
			continue
		}
		return pos
	}

	return len(m.src)
}

// lineSpan returns the span from start to the end of its line.
func (m *mapper) lineSpan(start int) mdast.Span {
	return mdast.NewSpan(start, m.trimRight(start, m.lineEnd(start)))
}

// linesSpan returns the span covering a block's line segments, falling back
// to the first content line after lowerBound for blocks without lines.
func (m *mapper) linesSpan(lines *text.Segments, lowerBound int) mdast.Span {
	if lines == nil || lines.Len() == 0 {
		return m.lineSpan(m.scanStart(lowerBound))
	}

	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return mdast.NewSpan(first.Start, m.trimRight(first.Start, last.Stop))
}

// lastLineEnd returns the terminator offset of the line holding the last
// segment.
func (m *mapper) lastLineEnd(lines *text.Segments) int {
	last := lines.At(lines.Len() - 1)
	if last.Stop > last.Start {
		return m.lineEnd(last.Stop - 1)
	}
	return m.lineEnd(last.Start)
}

// fenceAt reads the fence character and run length at pos.
func (m *mapper) fenceAt(pos int) (byte, int) {
	if pos >= len(m.src) || (m.src[pos] != '`' && m.src[pos] != '~') {
		return '`', 3
	}

	fenceChar := m.src[pos]
	length := 0
	for pos+length < len(m.src) && m.src[pos+length] == fenceChar {
		length++
	}

	return fenceChar, max(length, 3)
}

// closingFence checks whether the line starting at pos closes a fence of
// fenceChar at least length long, returning the end of the fence run.
func (m *mapper) closingFence(pos int, fenceChar byte, length int) (int, bool) {
	if pos >= len(m.src) {
		return 0, false
	}

	p := m.skipSpaces(m.skipPrefix(pos))
	q := p
	for q < len(m.src) && m.src[q] == fenceChar {
		q++
	}
	if q-p < length {
		return 0, false
	}

	end := m.lineEnd(q)
	if len(bytes.TrimSpace(m.src[q:end])) != 0 {
		return 0, false
	}

	return q, true
}

// listMarker returns the list item marker written at pos.
func (m *mapper) listMarker(pos int) string {
	if pos >= len(m.src) {
		return ""
	}

	switch c := m.src[pos]; {
	case c == '-' || c == '+' || c == '*':
		return string(c)
	case c >= '0' && c <= '9':
		q := pos
		for q < len(m.src) && m.src[q] >= '0' && m.src[q] <= '9' {
			q++
		}
		if q < len(m.src) && (m.src[q] == '.' || m.src[q] == ')') {
			return string(m.src[pos : q+1])
		}
	case isASCIILetter(c):
		if pos+1 < len(m.src) && (m.src[pos+1] == '.' || m.src[pos+1] == ')') {
			return string(m.src[pos : pos+2])
		}
	}

	return ""
}

// markerGap counts the spaces following a marker that ends at pos.
func (m *mapper) markerGap(pos int) int {
	gap := 0
	for pos+gap < len(m.src) && m.src[pos+gap] == ' ' {
		gap++
	}
	if gap == 0 || gap > 4 {
		return 1
	}
	return gap
}

// indexFrom returns the offset of the first c at or after pos, or -1.
func (m *mapper) indexFrom(pos int, c byte) int {
	pos = m.clamp(pos)
	idx := bytes.IndexByte(m.src[pos:], c)
	if idx < 0 {
		return -1
	}
	return pos + idx
}

// skipBlank advances over spaces, tabs and line breaks.
func (m *mapper) skipBlank(pos int) int {
	for pos < len(m.src) {
		switch m.src[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func (m *mapper) clamp(pos int) int {
	return min(max(pos, 0), len(m.src))
}

// clampSpans enforces span containment and sibling order on the tree.
func clampSpans(parent *mdast.Node) {
	low := parent.Span.Start
	high := parent.Span.End()

	for child := parent.FirstChild; child != nil; child = child.Next {
		start := min(max(child.Span.Start, low), high)
		end := min(max(child.Span.End(), start), high)
		child.Span = mdast.NewSpan(start, end)
		low = end
		clampSpans(child)
	}
}
