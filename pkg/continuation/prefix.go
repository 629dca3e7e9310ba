package continuation

import (
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// indentedCodeWidth is the indentation that keeps a line in an indented
// code block.
const indentedCodeWidth = 4

// BuildContinuationText returns the text that continues every block from
// first down to deepest on a new line. The innermost list item, quote or
// footer on the path re-emits its marker (list items advance to the next
// ordinal); list items above it are continued with spaces only, since a new
// item there would close the structure the caret is in. A task paragraph
// adds an unchecked box.
//
// It returns "" when deepest is not first or one of its descendants.
func BuildContinuationText(first, deepest *mdast.Node) string {
	path := pathBetween(first, deepest)
	if path == nil {
		return ""
	}
	return buildPrefix(path, true)
}

// pathBetween returns the nodes from first down to deepest, or nil when
// deepest is not inside first.
func pathBetween(first, deepest *mdast.Node) []*mdast.Node {
	if first == nil || deepest == nil {
		return nil
	}

	var path []*mdast.Node
	for n := range mdast.Lineage(deepest) {
		path = append(path, n)
		if n == first {
			slices.Reverse(path)
			return path
		}
	}
	return nil
}

// buildPrefix renders the prefix for path. Without markers, list items
// render as spaces and task boxes are dropped.
func buildPrefix(path []*mdast.Node, markers bool) string {
	innermost := innermostContainer(path)

	var buf strings.Builder
	for _, n := range path {
		switch n.Kind {
		case mdast.NodeListItem:
			if markers && n == innermost {
				buf.WriteString(NextMarker(itemMarker(n)))
				buf.WriteByte(' ')
			} else {
				buf.WriteString(strings.Repeat(" ", itemWidth(n)))
			}
		case mdast.NodeBlockquote:
			buf.WriteByte('>')
			buf.WriteString(markerGap(n, 1))
		case mdast.NodeFooter:
			buf.WriteString("^^")
			buf.WriteString(markerGap(n, 2))
		case mdast.NodeCodeBlock:
			if !n.IsFencedCode() {
				buf.WriteString(strings.Repeat(" ", indentedCodeWidth))
			}
		case mdast.NodeParagraph:
			if markers && isTaskParagraph(n) {
				buf.WriteString("[ ] ")
			}
		}
	}
	return buf.String()
}

// innermostContainer returns the last list item, quote or footer in path.
func innermostContainer(path []*mdast.Node) *mdast.Node {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i].Kind {
		case mdast.NodeListItem, mdast.NodeBlockquote, mdast.NodeFooter:
			return path[i]
		}
	}
	return nil
}

// NextMarker returns the marker of the item following one marked with
// marker: numbers increment keeping their delimiter, single letters advance
// and stay at 'z' or 'Z', bullets repeat. Anything else is returned unchanged.
func NextMarker(marker string) string {
	if len(marker) < 2 {
		return marker
	}

	body, delim := marker[:len(marker)-1], marker[len(marker)-1]
	if delim != '.' && delim != ')' {
		return marker
	}

	if n, err := strconv.Atoi(body); err == nil && n >= 0 && isDigits(body) {
		return strconv.Itoa(n+1) + string(delim)
	}

	if len(body) == 1 {
		switch c := body[0]; {
		case c >= 'a' && c < 'z', c >= 'A' && c < 'Z':
			return string(c+1) + string(delim)
		case c == 'z' || c == 'Z':
			return marker
		}
	}

	return marker
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func itemMarker(n *mdast.Node) string {
	if n.Block != nil && n.Block.ListItem != nil && n.Block.ListItem.Marker != "" {
		return n.Block.ListItem.Marker
	}
	return "-"
}

// itemWidth is the column where the item's content starts, relative to
// its marker.
func itemWidth(n *mdast.Node) int {
	if n.Block != nil && n.Block.ListItem != nil && n.Block.ListItem.ContentOffset > 0 {
		return n.Block.ListItem.ContentOffset
	}
	return len(itemMarker(n)) + 1
}

// markerGap returns the whitespace written between a quote or footer marker
// and its content. Empty containers and gaps that open an indented code
// block get a single space.
func markerGap(n *mdast.Node, markerLen int) string {
	if n.Doc == nil || n.FirstChild == nil {
		return " "
	}

	src := n.Doc.Content
	pos := n.Span.Start + markerLen
	end := pos
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	if end-pos > indentedCodeWidth {
		return " "
	}
	return string(src[pos:end])
}

func isTaskParagraph(n *mdast.Node) bool {
	return n.Kind == mdast.NodeParagraph && n.FirstChild != nil && n.FirstChild.Kind == mdast.NodeTaskMarker
}

// isEmptyTask reports whether n is a paragraph holding only a task marker.
func isEmptyTask(n *mdast.Node) bool {
	if !isTaskParagraph(n) {
		return false
	}
	for child := n.FirstChild.Next; child != nil; child = child.Next {
		if child.Kind != mdast.NodeText || child.Inline == nil {
			return false
		}
		if strings.TrimSpace(string(child.Inline.Text)) != "" {
			return false
		}
	}
	return true
}
