package mdast

// NodeKind is the syntactic category of a Node. The set is closed.
type NodeKind uint16

// Block kinds come first, ending at NodeTableCell; IsBlock depends on it.
const (
	NodeDocument NodeKind = iota

	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeFooter
	NodeFrontMatter
	NodeTable
	NodeTableRow
	NodeTableCell

	NodeText
	NodeEmphasis
	NodeStrong
	NodeStrikethrough
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeAutoLink
	NodeSoftBreak
	NodeHardBreak
	NodeHTMLInline
	NodeTaskMarker

	NodeRaw // content the mapper has no kind for
)

var nodeKindNames = [...]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeFooter:        "Footer",
	NodeFrontMatter:   "FrontMatter",
	NodeTable:         "Table",
	NodeTableRow:      "TableRow",
	NodeTableCell:     "TableCell",
	NodeText:          "Text",
	NodeEmphasis:      "Emphasis",
	NodeStrong:        "Strong",
	NodeStrikethrough: "Strikethrough",
	NodeCodeSpan:      "CodeSpan",
	NodeLink:          "Link",
	NodeImage:         "Image",
	NodeAutoLink:      "AutoLink",
	NodeSoftBreak:     "SoftBreak",
	NodeHardBreak:     "HardBreak",
	NodeHTMLInline:    "HTMLInline",
	NodeTaskMarker:    "TaskMarker",
	NodeRaw:           "Raw",
}

// String returns the kind name without the Node prefix, or "Unknown".
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node is one element of a document tree. Sibling and child links are
// maintained by AppendChild and Detach; Doc, Line and Column by Attach.
type Node struct {
	Kind NodeKind

	Parent, FirstChild, LastChild *Node
	Prev, Next                    *Node

	Span   Span // half-open byte range in Doc.Content
	Line   int  // 0-based line of Span.Start
	Column int  // 0-based byte column of Span.Start
	Doc    *Document

	Block  *BlockAttrs    // set on block kinds that carry attributes
	Inline *InlineAttrs   // set on links, images and code spans
	Ext    map[string]any // table alignment and header flags
}

// IsBlock reports whether n is a block-level node. Block kinds are
// declared before inline kinds.
func (n *Node) IsBlock() bool {
	return n.Kind <= NodeTableCell
}

// IsContainer reports whether n holds other blocks and contributes a
// line prefix: quotes, lists, list items and footers.
func (n *Node) IsContainer() bool {
	switch n.Kind {
	case NodeBlockquote, NodeList, NodeListItem, NodeFooter:
		return true
	}
	return false
}

// Children returns the direct children of n in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// HeadingLevel returns 1 to 6 for headings and 0 otherwise.
func (n *Node) HeadingLevel() int {
	if n.Kind == NodeHeading && n.Block != nil {
		return n.Block.HeadingLevel
	}
	return 0
}

// IsFencedCode reports whether n is a code block opened by a fence.
func (n *Node) IsFencedCode() bool {
	return n.Kind == NodeCodeBlock && n.Block != nil && n.Block.CodeBlock != nil && !n.Block.CodeBlock.Indented
}
