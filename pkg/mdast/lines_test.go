package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []mdast.LineInfo
	}{
		{name: "empty", content: "", want: []mdast.LineInfo{}},
		{
			name:    "no terminator",
			content: "abc",
			want:    []mdast.LineInfo{{StartOffset: 0, NewlineStart: 3, EndOffset: 3}},
		},
		{
			name:    "trailing LF",
			content: "abc\n",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 3, EndOffset: 4},
				{StartOffset: 4, NewlineStart: 4, EndOffset: 4},
			},
		},
		{
			name:    "CRLF",
			content: "ab\r\ncd",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 2, EndOffset: 4},
				{StartOffset: 4, NewlineStart: 6, EndOffset: 6},
			},
		},
		{
			name:    "mixed terminators",
			content: "a\r\nb\nc",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 6, EndOffset: 6},
			},
		},
		{
			name:    "blank lines",
			content: "\n\n",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 0, EndOffset: 1},
				{StartOffset: 1, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 2, EndOffset: 2},
			},
		},
		{
			name:    "lone CR is content",
			content: "a\rb",
			want:    []mdast.LineInfo{{StartOffset: 0, NewlineStart: 3, EndOffset: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, mdast.BuildLines([]byte(tt.content)))
		})
	}
}

func TestDocument_LineAt(t *testing.T) {
	t.Parallel()

	// Lines: "one" [0,4) "two" [4,8) "three" [8,13).
	doc := mdast.NewDocument("a.md", []byte("one\ntwo\nthree"))

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{offset: -3, wantLine: 0, wantCol: 0},
		{offset: 0, wantLine: 0, wantCol: 0},
		{offset: 3, wantLine: 0, wantCol: 3},
		{offset: 4, wantLine: 1, wantCol: 0},
		{offset: 6, wantLine: 1, wantCol: 2},
		{offset: 8, wantLine: 2, wantCol: 0},
		{offset: 12, wantLine: 2, wantCol: 4},
		{offset: 13, wantLine: 2, wantCol: 5},
		{offset: 99, wantLine: 2, wantCol: 5},
	}

	for _, tt := range tests {
		line, col := doc.LineAt(tt.offset)
		assert.Equal(t, tt.wantLine, line, "line of offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "column of offset %d", tt.offset)
	}
}

func TestDocument_Offset(t *testing.T) {
	t.Parallel()

	doc := mdast.NewDocument("a.md", []byte("one\ntwo\nthree"))

	tests := []struct {
		name       string
		line, col  int
		wantOffset int
		wantOK     bool
	}{
		{name: "origin", line: 0, col: 0, wantOffset: 0, wantOK: true},
		{name: "second line", line: 1, col: 1, wantOffset: 5, wantOK: true},
		{name: "after terminator", line: 0, col: 4, wantOffset: 4, wantOK: true},
		{name: "end of content", line: 2, col: 5, wantOffset: 13, wantOK: true},
		{name: "column too far", line: 0, col: 5},
		{name: "negative line", line: -1, col: 0},
		{name: "line out of range", line: 3, col: 0},
		{name: "negative column", line: 1, col: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offset, ok := doc.Offset(tt.line, tt.col)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantOffset, offset)
			}
		})
	}
}

func TestDocument_LineAtOffsetRoundTrip(t *testing.T) {
	t.Parallel()

	content := "# Title\r\n\r\n- item\n  more\n"
	doc := mdast.NewDocument("a.md", []byte(content))

	for offset := range len(content) {
		line, col := doc.LineAt(offset)
		got, ok := doc.Offset(line, col)
		require.True(t, ok, "offset %d -> (%d, %d)", offset, line, col)
		assert.Equal(t, offset, got)
	}
}

func TestDocument_LineContent(t *testing.T) {
	t.Parallel()

	doc := mdast.NewDocument("a.md", []byte("first\r\n \t\n\nlast"))

	assert.Equal(t, 4, doc.LineCount())
	assert.Equal(t, []byte("first"), doc.LineContent(0))
	assert.Equal(t, []byte(" \t"), doc.LineContent(1))
	assert.Equal(t, []byte("last"), doc.LineContent(3))
	assert.Nil(t, doc.LineContent(4))
	assert.Nil(t, doc.LineContent(-1))

	assert.False(t, doc.IsBlankLine(0))
	assert.True(t, doc.IsBlankLine(1))
	assert.True(t, doc.IsBlankLine(2))
	assert.False(t, doc.IsBlankLine(3))
	assert.False(t, doc.IsBlankLine(10))

	assert.Zero(t, mdast.NewDocument("", nil).LineCount())
}
