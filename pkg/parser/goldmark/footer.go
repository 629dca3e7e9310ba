package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindFooterBlock is the goldmark node kind for footer blocks.
var KindFooterBlock = ast.NewNodeKind("FooterBlock")

// FooterBlock is a container block whose lines start with "^^".
type FooterBlock struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *FooterBlock) Kind() ast.NodeKind {
	return KindFooterBlock
}

// Dump implements ast.Node.
func (n *FooterBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewFooterBlock returns an empty footer block.
func NewFooterBlock() *FooterBlock {
	return &FooterBlock{}
}

type footerParser struct{}

// NewFooterParser returns a block parser for "^^" footer blocks.
// Footer lines follow the same continuation rules as block quotes.
//
//nolint:ireturn // goldmark registers parsers by interface
func NewFooterParser() parser.BlockParser {
	return &footerParser{}
}

// consumeMarker advances the reader past "^^" and one optional space.
func (b *footerParser) consumeMarker(reader text.Reader) bool {
	line, _ := reader.PeekLine()
	width, pos := util.IndentWidth(line, reader.LineOffset())
	if width > 3 || pos+1 >= len(line) || line[pos] != '^' || line[pos+1] != '^' {
		return false
	}

	pos += 2
	if pos >= len(line) || line[pos] == '\n' {
		reader.Advance(pos)
		return true
	}

	reader.Advance(pos)
	if line[pos] == ' ' || line[pos] == '\t' {
		padding := 0
		if line[pos] == '\t' {
			padding = util.TabWidth(reader.LineOffset()) - 1
		}
		reader.AdvanceAndSetPadding(1, padding)
	}

	return true
}

func (b *footerParser) Trigger() []byte {
	return []byte{'^'}
}

//nolint:ireturn // goldmark parser contract
func (b *footerParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	if b.consumeMarker(reader) {
		return NewFooterBlock(), parser.HasChildren
	}
	return nil, parser.NoChildren
}

func (b *footerParser) Continue(_ ast.Node, reader text.Reader, _ parser.Context) parser.State {
	if b.consumeMarker(reader) {
		return parser.Continue | parser.HasChildren
	}
	return parser.Close
}

func (b *footerParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (b *footerParser) CanInterruptParagraph() bool {
	return true
}

func (b *footerParser) CanAcceptIndentedLine() bool {
	return false
}
