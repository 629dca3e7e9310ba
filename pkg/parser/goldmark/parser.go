// Package goldmark parses Markdown with the goldmark library and maps the
// result onto mdast documents.
package goldmark

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// Supported flavors. Unknown names fall back to CommonMark.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

//nolint:gochecknoglobals // read-only lookup table
var flavorExtensions = map[string][]goldmark.Extender{
	FlavorCommonMark: {Extension},
	FlavorGFM:        {Extension, extension.GFM},
}

// Parser turns source bytes into mdast documents. It holds no per-parse
// state and is safe for concurrent use.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New returns a parser for flavor.
func New(flavor string) *Parser {
	exts, ok := flavorExtensions[flavor]
	if !ok {
		flavor = FlavorCommonMark
		exts = flavorExtensions[flavor]
	}
	return &Parser{
		flavor: flavor,
		md:     goldmark.New(goldmark.WithExtensions(exts...)),
	}
}

// Flavor reports the flavor the parser was built for.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse builds a document from content. Every input parses; the only
// failure is a cancelled context. The content is copied, so callers may
// reuse their buffer.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	doc := mdast.NewDocument(path, bytes.Clone(content))

	tree := p.md.Parser().Parse(text.NewReader(doc.Content), parser.WithContext(parser.NewContext()))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	m := newMapper(doc.Content)
	m.mapDocument(tree, doc)
	mdast.Attach(doc.Root, doc)
	doc.FrontMatter = decodeFrontMatter(m.frontMatter)

	return doc, nil
}
