package mdast

import (
	"bytes"
	"sort"
)

// LineInfo locates one source line. For the last line, NewlineStart and
// EndOffset both equal the content length.
type LineInfo struct {
	StartOffset  int // first byte of the line
	NewlineStart int // "\n", or "\r" of a "\r\n" pair
	EndOffset    int // first byte after the terminator
}

// BuildLines indexes content by line. LF and CRLF terminators are both
// recognised; a trailing terminator yields a final empty line.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, bytes.Count(content, []byte{'\n'})+1)
	if len(content) == 0 {
		return lines
	}

	start := 0
	for {
		idx := bytes.IndexByte(content[start:], '\n')
		if idx < 0 {
			break
		}
		nl := start + idx
		info := LineInfo{StartOffset: start, NewlineStart: nl, EndOffset: nl + 1}
		if nl > start && content[nl-1] == '\r' {
			info.NewlineStart--
		}
		lines = append(lines, info)
		start = nl + 1
	}

	return append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineAt maps a byte offset to a 0-based line and byte column. Offsets
// before the content map to (0, 0) and offsets past it to the end of the
// last line.
func (d *Document) LineAt(offset int) (int, int) {
	if offset <= 0 || len(d.Lines) == 0 {
		return 0, 0
	}

	last := len(d.Lines) - 1
	if offset >= len(d.Content) {
		return last, len(d.Content) - d.Lines[last].StartOffset
	}

	line := min(sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	}), last)

	return line, offset - d.Lines[line].StartOffset
}

// Offset maps a 0-based line and column back to a byte offset. A column may
// point just past the terminator but no further.
func (d *Document) Offset(line, col int) (int, bool) {
	if line < 0 || line >= len(d.Lines) || col < 0 {
		return 0, false
	}

	info := d.Lines[line]
	if info.StartOffset+col > info.EndOffset {
		return 0, false
	}
	return info.StartOffset + col, true
}

// LineContent returns line without its terminator, or nil when out of range.
func (d *Document) LineContent(line int) []byte {
	if line < 0 || line >= len(d.Lines) {
		return nil
	}
	info := d.Lines[line]
	return d.Content[info.StartOffset:info.NewlineStart]
}

// IsBlankLine reports whether line holds only spaces and tabs.
func (d *Document) IsBlankLine(line int) bool {
	content := d.LineContent(line)
	return content != nil && len(bytes.Trim(content, " \t")) == 0
}
