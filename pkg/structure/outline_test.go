package structure_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/structure"
)

func regionsOfKind(regions []structure.Region, kind structure.RegionKind) []structure.Region {
	var out []structure.Region
	for _, r := range regions {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func TestOutline_CodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		labels  []string
	}{
		{"language label", "```go\nfmt.Println()\n```\n", []string{"GO Code Block"}},
		{"no language", "```\nplain\n```\n", []string{"Code Block"}},
		{"tilde fence with info", "~~~ python extra\nprint()\n~~~\n", []string{"PYTHON Code Block"}},
		{"unclosed fence skipped", "```go\nfmt.Println()\n", nil},
		{"empty fence skipped", "```go\n```\n", nil},
		{"indented code skipped", "    code\n    more\n", nil},
		{"nested in list", "- item\n\n  ```sh\n  ls\n  ```\n", []string{"SH Code Block"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			regions := regionsOfKind(structure.Outline(parse(t, tt.content)), structure.RegionCodeBlock)
			require.Len(t, regions, len(tt.labels))
			for i, r := range regions {
				assert.Equal(t, tt.labels[i], r.Label)
			}
		})
	}
}

func TestOutline_LanguageDetector(t *testing.T) {
	t.Parallel()

	content := "```\npackage main\n```\n\n```sh\nls\n```\n\n```\n???\n```\n"
	var seen []string
	detect := func(code []byte) string {
		seen = append(seen, string(code))
		if strings.HasPrefix(string(code), "package ") {
			return "go"
		}
		return ""
	}

	regions := regionsOfKind(structure.Outline(parse(t, content), structure.WithLanguageDetector(detect)), structure.RegionCodeBlock)
	require.Len(t, regions, 3)

	assert.Equal(t, "GO Code Block", regions[0].Label)
	assert.Equal(t, "go", regions[0].Language)
	assert.Equal(t, "SH Code Block", regions[1].Label, "fence language wins")
	assert.Equal(t, "Code Block", regions[2].Label)
	assert.Empty(t, regions[2].Language)
	assert.Len(t, seen, 2, "detector only runs for fences without a language")
	assert.True(t, strings.HasPrefix(seen[0], "package main"))
}

func TestOutline_CodeBlockTooltipRoundTrip(t *testing.T) {
	t.Parallel()

	content := "intro\n\n```js\nconst a = 1;\nconst b = 2;\n```\n\nafter"
	doc := parse(t, content)

	regions := regionsOfKind(structure.Outline(doc), structure.RegionCodeBlock)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, "```js\nconst a = 1;\nconst b = 2;\n```", r.Tooltip)
	assert.Equal(t, r.Tooltip, content[r.Span.Start:r.Span.End()])
	assert.Equal(t, 2, r.StartLine)
	assert.Equal(t, 5, r.EndLine)
}

func TestOutline_HTMLBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"single line comment excluded", "<!-- c -->\n", 0},
		{"two line block included", "<div>\ntext\n</div>\n", 1},
		{"multi line comment included", "<!--\nnote\n-->\n", 1},
		{"single line div excluded", "<div>x</div>\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			regions := regionsOfKind(structure.Outline(parse(t, tt.content)), structure.RegionHTMLBlock)
			require.Len(t, regions, tt.want)
			for _, r := range regions {
				assert.Equal(t, "HTML Block", r.Label)
				assert.Equal(t, strings.TrimRight(tt.content, "\n"), r.Tooltip)
			}
		})
	}
}

func TestOutline_Sections(t *testing.T) {
	t.Parallel()

	content := "# A\ntext a\n\n## B\ntext b\n\n\n# C\ntext c\n\n"
	doc := parse(t, content)

	regions := regionsOfKind(structure.Outline(doc), structure.RegionSection)
	require.Len(t, regions, 3)

	texts := make([]string, len(regions))
	for i, r := range regions {
		texts[i] = content[r.Span.Start:r.Span.End()]
	}

	assert.Equal(t, []string{
		"# A\ntext a\n\n## B\ntext b",
		"## B\ntext b",
		"# C\ntext c",
	}, texts)

	assert.Equal(t, "# A", regions[0].Label)
	assert.Equal(t, "## B", regions[1].Label)
	assert.Equal(t, 0, regions[0].StartLine)
	assert.Equal(t, 4, regions[0].EndLine)
}

func TestOutline_SingleLineSectionsSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"consecutive headings", "# A\n# B\n"},
		{"heading followed by blank lines", "# A\n\n\n"},
		{"setext heading alone", "Title\n=====\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			regions := regionsOfKind(structure.Outline(parse(t, tt.content)), structure.RegionSection)
			assert.Empty(t, regions)
		})
	}
}

func TestOutline_Order(t *testing.T) {
	t.Parallel()

	content := "# Guide\n\n<div>\nx\n</div>\n\n```go\ncode\n```\n"
	regions := structure.Outline(parse(t, content))
	require.Len(t, regions, 3)

	assert.Equal(t, structure.RegionSection, regions[0].Kind)
	assert.Equal(t, structure.RegionHTMLBlock, regions[1].Kind)
	assert.Equal(t, structure.RegionCodeBlock, regions[2].Kind)
}

func TestOutline_TooltipLimit(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("é", 900)
	content := "```\n" + body + "\n```\n"

	regions := structure.Outline(parse(t, content))
	require.Len(t, regions, 1)
	assert.Equal(t, structure.DefaultTooltipLimit, len([]rune(regions[0].Tooltip)))
	assert.True(t, strings.HasPrefix(content, regions[0].Tooltip))

	regions = structure.Outline(parse(t, content), structure.WithTooltipLimit(5))
	require.Len(t, regions, 1)
	assert.Equal(t, "```\né", regions[0].Tooltip)
}

func TestRegionKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "code", structure.RegionCodeBlock.String())
	assert.Equal(t, "html", structure.RegionHTMLBlock.String())
	assert.Equal(t, "section", structure.RegionSection.String())
	assert.Equal(t, "unknown", structure.RegionKind(99).String())
}
