package structure

import (
	"strings"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// plainText returns the rendered text of a node's inline content.
func plainText(n *mdast.Node) string {
	var buf strings.Builder
	for node := range mdast.All(n) {
		switch node.Kind {
		case mdast.NodeText, mdast.NodeCodeSpan:
			if node.Inline != nil {
				buf.Write(node.Inline.Text)
			}
		case mdast.NodeSoftBreak, mdast.NodeHardBreak:
			buf.WriteByte(' ')
		}
	}
	return strings.TrimSpace(buf.String())
}

// firstLine returns the first source line of a node, trimmed.
func firstLine(n *mdast.Node) string {
	text := string(n.Text())
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
