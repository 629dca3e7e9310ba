package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// ListStyleAttribute is the goldmark node attribute carrying the
// mdast.ListStyle of lists built by the alphabetic list transformer.
const ListStyleAttribute = "mdcoreListStyle"

type alphaListTransformer struct{}

// NewAlphaListTransformer returns a paragraph transformer that turns
// paragraphs starting with "a." / "A)" style markers into ordered lists.
// Every following line that starts with a marker of the same case and
// delimiter begins a new item; other lines continue the current item.
//
//nolint:ireturn // goldmark registers transformers by interface
func NewAlphaListTransformer() parser.ParagraphTransformer {
	return &alphaListTransformer{}
}

func (t *alphaListTransformer) Transform(node *ast.Paragraph, reader text.Reader, _ parser.Context) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return
	}

	source := reader.Source()
	first := lines.At(0)
	letter, delim, ok := alphaMarker(first.Value(source))
	if !ok {
		return
	}

	upper := letter >= 'A' && letter <= 'Z'
	style := mdast.ListStyleLowerAlpha
	if upper {
		style = mdast.ListStyleUpperAlpha
	}

	list := ast.NewList(delim)
	list.Start = alphaOrdinal(letter)
	list.IsTight = true
	list.SetAttributeString(ListStyleAttribute, style)

	var (
		item  *ast.ListItem
		block *ast.TextBlock
	)

	for i := range lines.Len() {
		segment := lines.At(i)
		value := segment.Value(source)

		if l, d, ok := alphaMarker(value); ok && d == delim && (l >= 'A' && l <= 'Z') == upper {
			item = ast.NewListItem(alphaMarkerWidth(value))
			list.AppendChild(list, item)

			rest := text.NewSegment(segment.Start+2, segment.Stop)
			rest = rest.TrimLeftSpace(source)
			block = nil
			if !util.IsBlank(rest.Value(source)) {
				block = ast.NewTextBlock()
				block.Lines().Append(rest)
				item.AppendChild(item, block)
			}
			continue
		}

		if block == nil {
			block = ast.NewTextBlock()
			item.AppendChild(item, block)
		}
		block.Lines().Append(segment)
	}

	parent := node.Parent()
	parent.ReplaceChild(parent, node, list)
}

// alphaMarker parses a single-letter ordered list marker at the start of line.
func alphaMarker(line []byte) (byte, byte, bool) {
	if len(line) < 2 || !isASCIILetter(line[0]) {
		return 0, 0, false
	}
	if line[1] != '.' && line[1] != ')' {
		return 0, 0, false
	}
	if len(line) > 2 && !isLineSpace(line[2]) {
		return 0, 0, false
	}
	return line[0], line[1], true
}

// alphaMarkerWidth is the marker width plus the spaces that follow it.
func alphaMarkerWidth(line []byte) int {
	width := 2
	for width < len(line) && (line[width] == ' ' || line[width] == '\t') {
		width++
	}
	return width
}

// alphaOrdinal maps 'a'/'A' to 1, 'b'/'B' to 2 and so on.
func alphaOrdinal(letter byte) int {
	if letter >= 'A' && letter <= 'Z' {
		return int(letter-'A') + 1
	}
	return int(letter-'a') + 1
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLineSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
