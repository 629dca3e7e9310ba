package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/internal/ui/pretty"
	"github.com/yaklabco/mdcore/pkg/linkcheck"
	"github.com/yaklabco/mdcore/pkg/runner"
	"github.com/yaklabco/mdcore/pkg/structure"
)

func TestFormatHeadings(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	assert.Empty(t, table.FormatHeadings(nil))

	out := table.FormatHeadings([]structure.HeadingEntry{
		{Line: 0, Label: "1 Intro", Anchor: "intro"},
		{Line: 4, Label: "  1.1 Setup", Anchor: "setup"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "LINE")
	assert.Contains(t, lines[0], "HEADING")
	assert.Contains(t, lines[0], "ANCHOR")
	assert.True(t, strings.HasPrefix(lines[1], "==="))
	assert.Contains(t, lines[2], "1 Intro")
	assert.Contains(t, lines[2], "#intro")
	assert.Contains(t, lines[3], "5 ")
	assert.Contains(t, lines[3], "  1.1 Setup")
	assert.Len(t, lines[1], len(lines[4]))
}

func TestFormatOutline(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	out := table.FormatOutline([]structure.Region{
		{Kind: structure.RegionSection, Label: "# Intro", StartLine: 0, EndLine: 6},
		{Kind: structure.RegionCodeBlock, Label: "```go\nfmt.Println()", StartLine: 2, EndLine: 4},
	})

	assert.Contains(t, out, "1-7")
	assert.Contains(t, out, "section")
	assert.Contains(t, out, "3-5")
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "```go")
	assert.NotContains(t, out, "Println", "only the first label line is shown")
}

func TestFormatLinkTable(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	assert.Empty(t, table.FormatLinkTable(nil))
	assert.Empty(t, table.FormatLinkTable(&runner.Result{Files: []runner.FileOutcome{{Path: "ok.md"}}}))

	result := &runner.Result{Files: []runner.FileOutcome{
		{Path: "a.md", Links: []linkcheck.Error{{File: "a.md", Message: "File not found: x.md", Line: 1, Column: 2, ErrorCode: "missing-file"}}},
		{Path: "ok.md"},
		{Path: "b.md", Links: []linkcheck.Error{{File: "b.md", Message: "No heading", Line: 0, Column: 0, ErrorCode: "missing-anchor"}}},
	}}

	out := table.FormatLinkTable(result)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[2], "a.md")
	assert.Contains(t, lines[2], "2:3")
	assert.True(t, strings.HasPrefix(lines[3], "---"), "files are separated by a light rule")
	assert.Contains(t, lines[4], "missing-anchor")
	assert.NotContains(t, out, "ok.md")
}

func TestFormatLinkTable_Truncates(t *testing.T) {
	t.Parallel()

	table := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	long := strings.Repeat("m", 200)
	path := "very/deep/" + strings.Repeat("d/", 30) + "file.md"
	out := table.FormatLinkTable(&runner.Result{Files: []runner.FileOutcome{
		{Path: path, Links: []linkcheck.Error{{Message: long, ErrorCode: "c"}}},
	}})

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "file.md", "file paths keep their tail")
	assert.NotContains(t, out, long)
}
