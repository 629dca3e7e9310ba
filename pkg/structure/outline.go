package structure

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

// DefaultTooltipLimit is the maximum number of characters in a region tooltip.
const DefaultTooltipLimit = 800

// RegionKind identifies what produced an outline region.
type RegionKind int

const (
	RegionCodeBlock RegionKind = iota
	RegionHTMLBlock
	RegionSection
)

// String returns the region kind name.
func (k RegionKind) String() string {
	switch k {
	case RegionCodeBlock:
		return "code"
	case RegionHTMLBlock:
		return "html"
	case RegionSection:
		return "section"
	default:
		return "unknown"
	}
}

// Region is a collapsible range of the document.
type Region struct {
	Kind    RegionKind
	Span    mdast.Span
	Label   string
	Tooltip string

	// Language is the fence language of a code block region, or the
	// detected one when the fence has none and a detector is configured.
	Language string

	// StartLine and EndLine are the 0-based lines of the first and last
	// byte of the region.
	StartLine int
	EndLine   int
}

// OutlineOption configures Outline.
type OutlineOption func(*outlineConfig)

type outlineConfig struct {
	tooltipLimit int
	detect       func(code []byte) string
}

// WithTooltipLimit sets the tooltip length in characters. Values below 1 are ignored.
func WithTooltipLimit(n int) OutlineOption {
	return func(c *outlineConfig) {
		if n > 0 {
			c.tooltipLimit = n
		}
	}
}

// WithLanguageDetector labels fenced code blocks without a language using
// detect, which returns "" when it cannot tell.
func WithLanguageDetector(detect func(code []byte) string) OutlineOption {
	return func(c *outlineConfig) {
		c.detect = detect
	}
}

// Outline returns the collapsible regions of doc ordered by start offset:
// closed non-empty fenced code blocks, HTML blocks spanning more than one
// line, and heading sections longer than the heading line itself.
func Outline(doc *mdast.Document, opts ...OutlineOption) []Region {
	if doc == nil || doc.Root == nil {
		return nil
	}

	cfg := outlineConfig{tooltipLimit: DefaultTooltipLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	var regions []Region
	regions = append(regions, codeRegions(doc, cfg.detect)...)
	regions = append(regions, htmlRegions(doc)...)
	regions = append(regions, sectionRegions(doc)...)

	for i := range regions {
		regions[i].Tooltip = Tooltip(doc.Content, regions[i].Span, cfg.tooltipLimit)
		regions[i].StartLine, _ = doc.LineAt(regions[i].Span.Start)
		regions[i].EndLine, _ = doc.LineAt(max(regions[i].Span.End()-1, regions[i].Span.Start))
	}

	slices.SortStableFunc(regions, func(a, b Region) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return regions
}

func codeRegions(doc *mdast.Document, detect func([]byte) string) []Region {
	blocks := lo.Filter(mdast.FindByKind(doc.Root, mdast.NodeCodeBlock), func(n *mdast.Node, _ int) bool {
		if !n.IsFencedCode() {
			return false
		}
		code := n.Block.CodeBlock
		return code.Closed && code.ContentLines > 0
	})

	upper := cases.Upper(language.Und)
	return lo.Map(blocks, func(n *mdast.Node, _ int) Region {
		code := n.Block.CodeBlock
		lang := code.Language
		if lang == "" && detect != nil {
			start := min(code.Content.Start, len(doc.Content))
			end := min(code.Content.End(), len(doc.Content))
			lang = detect(doc.Content[start:end])
		}
		return Region{
			Kind:     RegionCodeBlock,
			Span:     n.Span,
			Label:    strings.TrimSpace(upper.String(lang) + " Code Block"),
			Language: lang,
		}
	})
}

func htmlRegions(doc *mdast.Document) []Region {
	blocks := lo.Filter(mdast.FindByKind(doc.Root, mdast.NodeHTMLBlock), func(n *mdast.Node, _ int) bool {
		return bytes.IndexByte(n.Text(), '\n') >= 0
	})

	return lo.Map(blocks, func(n *mdast.Node, _ int) Region {
		return Region{Kind: RegionHTMLBlock, Span: n.Span, Label: "HTML Block"}
	})
}

// sectionRegions builds one region per heading that runs to the line before
// the next heading of the same or a shallower level, minus trailing blank
// lines.
func sectionRegions(doc *mdast.Document) []Region {
	headings := mdast.FindByKind(doc.Root, mdast.NodeHeading)

	var regions []Region
	for i, heading := range headings {
		lastLine := doc.LineCount() - 1
		for _, next := range headings[i+1:] {
			if next.HeadingLevel() <= heading.HeadingLevel() {
				lastLine = next.Line - 1
				break
			}
		}

		for lastLine > heading.Line && doc.IsBlankLine(lastLine) {
			lastLine--
		}

		headingLast, _ := doc.LineAt(max(heading.End()-1, heading.Span.Start))
		if lastLine <= headingLast {
			continue
		}

		end := doc.Lines[lastLine].NewlineStart
		regions = append(regions, Region{
			Kind:  RegionSection,
			Span:  mdast.NewSpan(heading.Span.Start, end),
			Label: firstLine(heading),
		})
	}

	return regions
}

// Tooltip returns up to limit characters of content[span], cut on a rune
// boundary.
func Tooltip(content []byte, span mdast.Span, limit int) string {
	text := span.Slice(content)
	if limit <= 0 || utf8.RuneCount(text) <= limit {
		return string(text)
	}

	end := 0
	for range limit {
		_, size := utf8.DecodeRune(text[end:])
		end += size
	}
	return string(text[:end])
}
