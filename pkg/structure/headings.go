package structure

import (
	"strconv"
	"strings"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// MaxDepth is the deepest heading level.
const MaxDepth = 6

// HeadingEntry is one heading with its position in the numbering.
type HeadingEntry struct {
	Node  *mdast.Node
	Level int
	Text  string

	// Levels holds the counters for levels 1..6 after this heading.
	Levels [MaxDepth]int

	// Number is the dotted prefix built from the non-zero counters, e.g. "1.2".
	Number string

	// Indent is the number of leading spaces in Label.
	Indent int

	// Label is the table-of-contents text: indent, number and heading text.
	Label string

	// Anchor is the GitHub-style fragment for the heading.
	Anchor string

	Span mdast.Span
	Line int
}

// Headings returns every heading in document order with its numbering.
//
// For a heading of level L the counter for L is incremented and all deeper
// counters are reset. The label is indented by L minus the shallowest level
// that has a non-zero counter, so documents starting at "###" are not pushed
// to the right. The dotted number is omitted when the heading text already
// starts with a digit.
func Headings(doc *mdast.Document) []HeadingEntry {
	if doc == nil || doc.Root == nil {
		return nil
	}

	nodes := mdast.FindByKind(doc.Root, mdast.NodeHeading)
	entries := make([]HeadingEntry, 0, len(nodes))
	anchors := NewAnchors()

	var levels [MaxDepth]int
	for _, node := range nodes {
		level := min(max(node.HeadingLevel(), 1), MaxDepth)

		levels[level-1]++
		for i := level; i < MaxDepth; i++ {
			levels[i] = 0
		}

		text := plainText(node)
		entry := HeadingEntry{
			Node:   node,
			Level:  level,
			Text:   text,
			Levels: levels,
			Number: dottedNumber(levels, level),
			Indent: level - startIndent(levels),
			Anchor: anchors.Add(text),
			Span:   node.Span,
			Line:   node.Line,
		}
		entry.Label = numberingLabel(entry)
		entries = append(entries, entry)
	}

	return entries
}

// startIndent returns the shallowest level with a non-zero counter.
func startIndent(levels [MaxDepth]int) int {
	for i, count := range levels {
		if count != 0 {
			return i + 1
		}
	}
	return 1
}

func dottedNumber(levels [MaxDepth]int, level int) string {
	parts := make([]string, 0, level)
	for _, count := range levels[:level] {
		if count != 0 {
			parts = append(parts, strconv.Itoa(count))
		}
	}
	return strings.Join(parts, ".")
}

func numberingLabel(entry HeadingEntry) string {
	var buf strings.Builder
	buf.WriteString(strings.Repeat(" ", entry.Indent))
	if !startsWithDigit(entry.Text) {
		buf.WriteString(entry.Number)
		buf.WriteByte(' ')
	}
	buf.WriteString(entry.Text)
	return buf.String()
}

func startsWithDigit(text string) bool {
	return text != "" && text[0] >= '0' && text[0] <= '9'
}
