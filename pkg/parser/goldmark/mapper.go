package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// mapper converts a goldmark AST into an mdast.Node tree and computes the
// source span of every node.
type mapper struct {
	src []byte

	// markers holds the prefix markers of enclosing quote ('>') and footer
	// ('^') blocks, outermost first.
	markers []byte

	// cursor is the inline scan position inside the current leaf block.
	cursor int

	// frontMatter is the raw YAML body, if the document has front matter.
	frontMatter []byte
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{src: content}
}

// mapDocument converts a goldmark document into the children of doc.Root.
func (m *mapper) mapDocument(gmDoc ast.Node, doc *mdast.Document) {
	m.mapChildren(gmDoc, doc.Root, 0)
	clampSpans(doc.Root)
}

// mapChildren maps all children of a goldmark node. Block children are
// located at or after lowerBound, each one after its previous sibling.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node, lowerBound int) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		node := m.mapNode(child, lowerBound)
		if node == nil {
			continue
		}

		mdast.AppendChild(parent, node)
		if node.IsBlock() {
			lowerBound = max(lowerBound, node.End())
		}

		if textNode, ok := child.(*ast.Text); ok && (textNode.SoftLineBreak() || textNode.HardLineBreak()) {
			mdast.AppendChild(parent, m.mapLineBreak(textNode))
		}
	}
}

// mapNode converts a single goldmark node to an mdast.Node.
func (m *mapper) mapNode(gmNode ast.Node, lowerBound int) *mdast.Node {
	switch gmn := gmNode.(type) {
	// Block-level nodes.
	case *ast.Heading:
		return m.mapHeading(gmn, lowerBound)

	case *ast.Paragraph, *ast.TextBlock:
		return m.mapParagraph(gmn, lowerBound)

	case *ast.List:
		return m.mapList(gmn, lowerBound)

	case *ast.ListItem:
		return m.mapListItem(gmn, lowerBound)

	case *ast.Blockquote:
		return m.mapQuoted(gmn, mdast.NodeBlockquote, '>', lowerBound)

	case *FooterBlock:
		return m.mapQuoted(gmn, mdast.NodeFooter, '^', lowerBound)

	case *FrontMatterBlock:
		return m.mapFrontMatter(gmn)

	case *ast.FencedCodeBlock:
		return m.mapFencedCodeBlock(gmn, lowerBound)

	case *ast.CodeBlock:
		return m.mapIndentedCodeBlock(gmn, lowerBound)

	case *ast.ThematicBreak:
		node := mdast.NewNode(mdast.NodeThematicBreak)
		node.Span = m.lineSpan(m.scanStart(lowerBound))
		return node

	case *ast.HTMLBlock:
		return m.mapHTMLBlock(gmn, lowerBound)

	// GFM tables.
	case *east.Table:
		return m.mapTable(gmn, lowerBound)

	case *east.TableHeader:
		node := m.mapTableRow(gmn, lowerBound)
		node.Ext = map[string]any{"header": true}
		return node

	case *east.TableRow:
		return m.mapTableRow(gmn, lowerBound)

	case *east.TableCell:
		return m.mapTableCell(gmn, lowerBound)

	// Inline-level nodes.
	case *ast.Text:
		return m.mapText(gmn)

	case *ast.String:
		node := mdast.NewNode(mdast.NodeText)
		node.Inline = &mdast.InlineAttrs{Text: gmn.Value}
		node.Span = mdast.Span{Start: m.cursor}
		return node

	case *ast.Emphasis:
		return m.mapEmphasis(gmn)

	case *ast.CodeSpan:
		return m.mapCodeSpan(gmn)

	case *ast.Link:
		return m.mapLink(gmn, mdast.NodeLink, string(gmn.Destination), string(gmn.Title))

	case *ast.Image:
		return m.mapLink(gmn, mdast.NodeImage, string(gmn.Destination), string(gmn.Title))

	case *ast.AutoLink:
		return m.mapAutoLink(gmn)

	case *ast.RawHTML:
		return m.mapRawHTML(gmn)

	case *east.Strikethrough:
		return m.mapStrikethrough(gmn)

	case *east.TaskCheckBox:
		return m.mapTaskCheckBox(gmn)

	default:
		return m.mapRaw(gmNode, lowerBound)
	}
}

// mapHeading converts an ATX or setext heading.
func (m *mapper) mapHeading(heading *ast.Heading, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHeading)
	node.Block = &mdast.BlockAttrs{HeadingLevel: heading.Level}

	start := m.scanStart(lowerBound)
	lines := heading.Lines()

	switch {
	case start < len(m.src) && m.src[start] == '#':
		node.Span = m.lineSpan(start)
	case lines.Len() > 0:
		// Setext: the span runs through the underline.
		contentEnd := m.trimRight(start, lines.At(lines.Len()-1).Stop)
		underline := m.nextLine(contentEnd)
		node.Span = mdast.NewSpan(start, m.trimRight(underline, m.lineEnd(underline)))
	default:
		node.Span = m.lineSpan(start)
	}

	m.mapInlines(heading, node)
	return node
}

// mapParagraph converts paragraphs and the text blocks of tight lists.
func (m *mapper) mapParagraph(paragraph ast.Node, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeParagraph)
	node.Span = m.linesSpan(paragraph.Lines(), lowerBound)
	m.mapInlines(paragraph, node)
	return node
}

// mapInlines maps the inline children of a leaf block.
func (m *mapper) mapInlines(gmNode ast.Node, node *mdast.Node) {
	m.cursor = node.Span.Start
	m.mapChildren(gmNode, node, node.Span.Start)
}

// mapList converts a goldmark List to an mdast node.
func (m *mapper) mapList(list *ast.List, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeList)

	listAttrs := &mdast.ListAttrs{
		Ordered:     list.IsOrdered(),
		StartNumber: list.Start,
		Tight:       list.IsTight,
		Style:       mdast.ListStyleBullet,
	}

	if list.IsOrdered() {
		listAttrs.Delimiter = string(list.Marker)
		listAttrs.Style = mdast.ListStyleNumeric
		if value, ok := list.AttributeString(ListStyleAttribute); ok {
			if style, ok := value.(mdast.ListStyle); ok {
				listAttrs.Style = style
			}
		}
	} else {
		listAttrs.BulletMarker = string(list.Marker)
	}

	node.Block = &mdast.BlockAttrs{List: listAttrs}

	start := m.scanStart(lowerBound)
	m.mapChildren(list, node, start)
	node.Span = m.containerSpan(node, start, start+1)
	return node
}

// mapListItem converts a goldmark ListItem, recording its marker as written.
func (m *mapper) mapListItem(item *ast.ListItem, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeListItem)

	start := m.scanStart(lowerBound)
	marker := m.listMarker(start)
	markerEnd := start + len(marker)

	node.Block = &mdast.BlockAttrs{ListItem: &mdast.ListItemAttrs{
		Marker:        marker,
		ContentOffset: len(marker) + m.markerGap(markerEnd),
	}}

	m.mapChildren(item, node, markerEnd)
	node.Span = m.containerSpan(node, start, markerEnd)
	return node
}

// mapQuoted converts block quotes and footers, whose lines carry a prefix
// marker.
func (m *mapper) mapQuoted(gmNode ast.Node, kind mdast.NodeKind, marker byte, lowerBound int) *mdast.Node {
	node := mdast.NewNode(kind)

	start := m.scanStart(lowerBound)
	width := 1
	if marker == '^' {
		width = 2
	}
	markerEnd := start
	if start+width <= len(m.src) && m.src[start] == marker {
		markerEnd = start + width
	}

	m.markers = append(m.markers, marker)
	m.mapChildren(gmNode, node, markerEnd)
	m.markers = m.markers[:len(m.markers)-1]

	node.Span = m.containerSpan(node, start, markerEnd)
	return node
}

// containerSpan spans from start to the end of the last child, or to
// minEnd for an empty container.
func (m *mapper) containerSpan(node *mdast.Node, start, minEnd int) mdast.Span {
	end := min(minEnd, len(m.src))
	if node.LastChild != nil {
		end = max(end, node.LastChild.End())
	}
	return mdast.NewSpan(start, end)
}

// mapFrontMatter converts the YAML front matter block. It always starts at
// offset 0 and ends with its closing fence line.
func (m *mapper) mapFrontMatter(block *FrontMatterBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeFrontMatter)

	lines := block.Lines()
	lastEnd := m.lineEnd(0)

	var body bytes.Buffer
	for i := range lines.Len() {
		segment := lines.At(i)
		body.Write(segment.Value(m.src))
	}
	if lines.Len() > 0 {
		lastEnd = m.lastLineEnd(lines)
	}
	m.frontMatter = body.Bytes()

	closing := m.nextLine(lastEnd)
	node.Span = mdast.NewSpan(0, m.trimRight(closing, m.lineEnd(closing)))
	return node
}

// mapFencedCodeBlock converts a fenced code block, covering both fences.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)

	start := m.scanStart(lowerBound)
	fenceChar, fenceLength := m.fenceAt(start)

	codeAttrs := &mdast.CodeBlockAttrs{
		FenceChar:   fenceChar,
		FenceLength: fenceLength,
	}
	if codeBlock.Info != nil {
		codeAttrs.Info = strings.TrimSpace(string(codeBlock.Info.Segment.Value(m.src)))
		codeAttrs.Language = string(codeBlock.Language(m.src))
	}

	openEnd := m.lineEnd(start)
	end := m.trimRight(start, openEnd)
	lastEnd := openEnd

	lines := codeBlock.Lines()
	codeAttrs.ContentLines = lines.Len()
	if lines.Len() > 0 {
		lastEnd = m.lastLineEnd(lines)
		codeAttrs.Content = mdast.NewSpan(lines.At(0).Start, lastEnd)
		end = lastEnd
	}

	if closeEnd, ok := m.closingFence(m.nextLine(lastEnd), fenceChar, fenceLength); ok {
		codeAttrs.Closed = true
		end = closeEnd
	}

	node.Block = &mdast.BlockAttrs{CodeBlock: codeAttrs}
	node.Span = mdast.NewSpan(start, end)
	return node
}

// mapIndentedCodeBlock converts an indented code block.
func (m *mapper) mapIndentedCodeBlock(codeBlock *ast.CodeBlock, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)

	codeAttrs := &mdast.CodeBlockAttrs{
		Indented: true,
		Closed:   true,
	}

	lines := codeBlock.Lines()
	codeAttrs.ContentLines = lines.Len()
	if lines.Len() > 0 {
		start := lines.At(0).Start
		end := m.lastLineEnd(lines)
		codeAttrs.Content = mdast.NewSpan(start, end)
		node.Span = mdast.NewSpan(start, m.trimRight(start, end))
	} else {
		node.Span = m.lineSpan(m.scanStart(lowerBound))
	}

	node.Block = &mdast.BlockAttrs{CodeBlock: codeAttrs}
	return node
}

// mapHTMLBlock converts an HTML block including its closure line.
func (m *mapper) mapHTMLBlock(html *ast.HTMLBlock, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHTMLBlock)

	start := m.scanStart(lowerBound)
	end := m.trimRight(start, m.lineEnd(start))

	lines := html.Lines()
	if lines.Len() > 0 {
		end = max(end, m.trimRight(start, lines.At(lines.Len()-1).Stop))
	}
	if html.HasClosure() {
		end = max(end, m.trimRight(start, html.ClosureLine.Stop))
	}

	node.Span = mdast.NewSpan(start, end)
	return node
}

// mapTable converts a GFM table.
func (m *mapper) mapTable(table *east.Table, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeTable)

	alignments := make([]string, 0, len(table.Alignments))
	for _, alignment := range table.Alignments {
		alignments = append(alignments, alignment.String())
	}
	node.Ext = map[string]any{"alignments": alignments}

	start := m.scanStart(lowerBound)
	m.mapChildren(table, node, start)
	node.Span = m.containerSpan(node, start, m.trimRight(start, m.lineEnd(start)))
	return node
}

// mapTableRow converts a header or body row; its span covers its cells.
func (m *mapper) mapTableRow(row ast.Node, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeTableRow)

	m.mapChildren(row, node, lowerBound)
	if node.FirstChild == nil {
		node.Span = m.lineSpan(m.scanStart(lowerBound))
		return node
	}

	node.Span = node.FirstChild.Span.Union(node.LastChild.Span)
	return node
}

// mapTableCell converts a table cell and its inline content.
func (m *mapper) mapTableCell(cell *east.TableCell, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeTableCell)
	node.Ext = map[string]any{"alignment": cell.Alignment.String()}

	if cell.Lines().Len() > 0 {
		node.Span = m.linesSpan(cell.Lines(), lowerBound)
	} else {
		node.Span = mdast.Span{Start: m.clamp(lowerBound)}
	}

	m.mapInlines(cell, node)
	return node
}

// mapText converts a goldmark Text node.
func (m *mapper) mapText(textNode *ast.Text) *mdast.Node {
	node := mdast.NewNode(mdast.NodeText)
	node.Inline = &mdast.InlineAttrs{Text: textNode.Segment.Value(m.src)}
	node.Span = mdast.NewSpan(textNode.Segment.Start, textNode.Segment.Stop)
	m.advance(node)
	return node
}

// mapLineBreak creates the break node that follows a Text node.
// It covers any trailing whitespace up to the line terminator.
func (m *mapper) mapLineBreak(textNode *ast.Text) *mdast.Node {
	kind := mdast.NodeSoftBreak
	if textNode.HardLineBreak() {
		kind = mdast.NodeHardBreak
	}

	node := mdast.NewNode(kind)
	start := m.clamp(textNode.Segment.Stop)
	node.Span = mdast.NewSpan(start, m.lineEnd(start))
	m.advance(node)
	return node
}

// mapEmphasis converts a goldmark Emphasis node, including its delimiters.
func (m *mapper) mapEmphasis(emphasis *ast.Emphasis) *mdast.Node {
	kind := mdast.NodeEmphasis
	if emphasis.Level >= 2 {
		kind = mdast.NodeStrong
	}

	node := mdast.NewNode(kind)
	node.Inline = &mdast.InlineAttrs{EmphasisLevel: emphasis.Level}

	before := m.cursor
	m.mapChildren(emphasis, node, before)
	node.Span = m.delimitedSpan(node, before, emphasis.Level, "*_")
	m.advance(node)
	return node
}

// mapStrikethrough converts a GFM Strikethrough node.
func (m *mapper) mapStrikethrough(strike *east.Strikethrough) *mdast.Node {
	node := mdast.NewNode(mdast.NodeStrikethrough)

	before := m.cursor
	m.mapChildren(strike, node, before)
	node.Span = m.delimitedSpan(node, before, 2, "~")
	m.advance(node)
	return node
}

// delimitedSpan returns the children's span widened by up to width
// delimiter bytes on each side.
func (m *mapper) delimitedSpan(node *mdast.Node, before, width int, delimiters string) mdast.Span {
	if node.FirstChild == nil {
		return mdast.Span{Start: before}
	}

	start := node.FirstChild.Span.Start
	end := node.LastChild.End()

	for i := 0; i < width && start > before && strings.IndexByte(delimiters, m.src[start-1]) >= 0; i++ {
		start--
	}
	for i := 0; i < width && end < len(m.src) && strings.IndexByte(delimiters, m.src[end]) >= 0; i++ {
		end++
	}

	return mdast.NewSpan(start, end)
}

// mapCodeSpan converts a goldmark CodeSpan, including its backticks.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeSpan)

	var (
		text       []byte
		start, end = -1, -1
	)
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			text = append(text, textNode.Segment.Value(m.src)...)
			if start < 0 {
				start = textNode.Segment.Start
			}
			end = textNode.Segment.Stop
		}
	}
	node.Inline = &mdast.InlineAttrs{Text: text}

	if start < 0 {
		open := m.indexFrom(m.cursor, '`')
		if open < 0 {
			node.Span = mdast.Span{Start: m.cursor}
			return node
		}
		start, end = open, open
	}

	if start > m.cursor && m.src[start-1] == ' ' {
		start--
	}
	for start > m.cursor && m.src[start-1] == '`' {
		start--
	}
	if end < len(m.src) && m.src[end] == ' ' {
		end++
	}
	for end < len(m.src) && m.src[end] == '`' {
		end++
	}

	node.Span = mdast.NewSpan(start, end)
	m.advance(node)
	return node
}

// mapLink converts links and images, locating the brackets, the
// destination inside "(...)" and the reference style from the source.
func (m *mapper) mapLink(gmNode ast.Node, kind mdast.NodeKind, destination, title string) *mdast.Node {
	node := mdast.NewNode(kind)
	linkAttrs := &mdast.LinkAttrs{
		Destination: destination,
		Title:       title,
	}
	node.Inline = &mdast.InlineAttrs{Link: linkAttrs}

	before := m.cursor
	m.mapChildren(gmNode, node, before)

	var open, labelEnd int
	if node.FirstChild != nil {
		labelStart := node.FirstChild.Span.Start
		open = bytes.LastIndexByte(m.src[m.clamp(before):m.clamp(labelStart)], '[')
		if open < 0 {
			open = labelStart
		} else {
			open += m.clamp(before)
		}
		labelEnd = node.LastChild.End()
	} else {
		open = m.indexFrom(before, '[')
		if open < 0 {
			node.Span = mdast.Span{Start: m.cursor}
			return node
		}
		labelEnd = open + 1
	}

	start := open
	if kind == mdast.NodeImage && start > 0 && m.src[start-1] == '!' {
		start--
	}

	closeBracket := m.indexFrom(labelEnd, ']')
	if closeBracket < 0 {
		node.Span = mdast.NewSpan(start, labelEnd)
		m.advance(node)
		return node
	}

	end := closeBracket + 1
	switch {
	case end < len(m.src) && m.src[end] == '(':
		linkAttrs.ReferenceStyle = mdast.RefStyleInline
		end = m.scanDestination(end+1, linkAttrs)
	case end < len(m.src) && m.src[end] == '[':
		labelClose := m.indexFrom(end+1, ']')
		if labelClose < 0 {
			linkAttrs.ReferenceStyle = mdast.RefStyleShortcut
			break
		}
		if labelClose == end+1 {
			linkAttrs.ReferenceStyle = mdast.RefStyleCollapsed
			linkAttrs.ReferenceLabel = m.slice(open+1, closeBracket)
		} else {
			linkAttrs.ReferenceStyle = mdast.RefStyleFull
			linkAttrs.ReferenceLabel = m.slice(end+1, labelClose)
		}
		end = labelClose + 1
	default:
		linkAttrs.ReferenceStyle = mdast.RefStyleShortcut
		linkAttrs.ReferenceLabel = m.slice(open+1, closeBracket)
	}

	node.Span = mdast.NewSpan(start, end)
	m.advance(node)
	return node
}

// scanDestination reads "dest "title")" starting just after "(" and
// records the destination span. It returns the offset after ")".
func (m *mapper) scanDestination(pos int, linkAttrs *mdast.LinkAttrs) int {
	pos = m.skipBlank(pos)

	var urlStart, urlEnd int
	if pos < len(m.src) && m.src[pos] == '<' {
		urlStart = pos + 1
		urlEnd = m.indexFrom(urlStart, '>')
		if urlEnd < 0 {
			urlEnd = urlStart
		}
		pos = min(urlEnd+1, len(m.src))
	} else {
		depth := 0
		q := pos
	scan:
		for q < len(m.src) {
			switch m.src[q] {
			case '\\':
				q++
			case ' ', '\t', '\n', '\r':
				break scan
			case '(':
				depth++
			case ')':
				if depth == 0 {
					break scan
				}
				depth--
			}
			q++
		}
		q = min(q, len(m.src))
		urlStart, urlEnd = pos, q
		pos = q
	}

	linkAttrs.URLSpan = mdast.NewSpan(urlStart, urlEnd)
	linkAttrs.HasURLSpan = true

	pos = m.skipBlank(pos)
	if pos < len(m.src) {
		closer := byte(0)
		switch m.src[pos] {
		case '"':
			closer = '"'
		case '\'':
			closer = '\''
		case '(':
			closer = ')'
		}
		if closer != 0 {
			q := pos + 1
			for q < len(m.src) && m.src[q] != closer {
				if m.src[q] == '\\' {
					q++
				}
				q++
			}
			pos = m.skipBlank(min(q+1, len(m.src)))
		}
	}

	if pos < len(m.src) && m.src[pos] == ')' {
		return pos + 1
	}
	return pos
}

// mapAutoLink converts "<url>" autolinks and GFM bare URLs.
func (m *mapper) mapAutoLink(autoLink *ast.AutoLink) *mdast.Node {
	node := mdast.NewNode(mdast.NodeAutoLink)

	label := autoLink.Label(m.src)
	node.Inline = &mdast.InlineAttrs{Link: &mdast.LinkAttrs{
		Destination:    string(autoLink.URL(m.src)),
		ReferenceStyle: mdast.RefStyleAutolink,
	}}

	textNode := mdast.NewNode(mdast.NodeText)
	textNode.Inline = &mdast.InlineAttrs{Text: label}

	start := m.cursor
	if idx := bytes.Index(m.src[m.clamp(m.cursor):], label); idx >= 0 && len(label) > 0 {
		start = m.clamp(m.cursor) + idx
	}
	end := min(start+len(label), len(m.src))
	textNode.Span = mdast.NewSpan(start, end)

	if start > 0 && m.src[start-1] == '<' && end < len(m.src) && m.src[end] == '>' {
		start--
		end++
	}
	node.Span = mdast.NewSpan(start, end)

	mdast.AppendChild(node, textNode)
	m.advance(node)
	return node
}

// mapRawHTML converts inline HTML.
func (m *mapper) mapRawHTML(raw *ast.RawHTML) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHTMLInline)

	segments := raw.Segments
	if segments == nil || segments.Len() == 0 {
		node.Span = mdast.Span{Start: m.cursor}
		return node
	}

	node.Span = mdast.NewSpan(segments.At(0).Start, segments.At(segments.Len()-1).Stop)
	m.advance(node)
	return node
}

// mapTaskCheckBox converts a GFM task list marker ("[ ]" or "[x]").
func (m *mapper) mapTaskCheckBox(checkBox *east.TaskCheckBox) *mdast.Node {
	node := mdast.NewNode(mdast.NodeTaskMarker)
	node.Inline = &mdast.InlineAttrs{Checked: checkBox.IsChecked}

	open := m.indexFrom(m.cursor, '[')
	if open < 0 {
		node.Span = mdast.Span{Start: m.cursor}
		return node
	}

	node.Span = mdast.NewSpan(open, min(open+3, len(m.src)))
	m.advance(node)
	return node
}

// mapRaw is the fallback for node types the mapper does not know.
func (m *mapper) mapRaw(gmNode ast.Node, lowerBound int) *mdast.Node {
	node := mdast.NewNode(mdast.NodeRaw)

	if gmNode.Type() == ast.TypeInline {
		before := m.cursor
		m.mapChildren(gmNode, node, before)
		node.Span = m.containerSpan(node, before, before)
		m.advance(node)
		return node
	}

	start := m.scanStart(lowerBound)
	if gmNode.Lines().Len() > 0 {
		node.Span = m.linesSpan(gmNode.Lines(), lowerBound)
		start = node.Span.Start
		m.cursor = start
	}
	m.mapChildren(gmNode, node, start)
	node.Span = m.containerSpan(node, start, max(node.Span.End(), start))
	return node
}

// slice returns src[start:end] as a string, or "" for an inverted range.
func (m *mapper) slice(start, end int) string {
	start, end = m.clamp(start), m.clamp(end)
	if start >= end {
		return ""
	}
	return string(m.src[start:end])
}

// advance moves the inline cursor past node.
func (m *mapper) advance(node *mdast.Node) {
	m.cursor = max(m.cursor, node.End())
}
