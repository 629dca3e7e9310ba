package goldmark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

// Block parser and transformer priorities. Lower values run first.
const (
	frontMatterPriority = 0
	footerPriority      = 750
	alphaListPriority   = 300
)

type mdcoreExtension struct{}

// Extension adds the syntax every mdcore flavor understands on top of
// CommonMark: YAML front matter, footer blocks and alphabetic ordered lists.
var Extension goldmark.Extender = &mdcoreExtension{}

// Extend implements goldmark.Extender.
func (e *mdcoreExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewFrontMatterParser(), frontMatterPriority),
			util.Prioritized(NewFooterParser(), footerPriority),
		),
		parser.WithParagraphTransformers(
			util.Prioritized(NewAlphaListTransformer(), alphaListPriority),
		),
	)
}
