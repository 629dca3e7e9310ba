package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/structure"
)

func TestHeadings_Numbering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		numbers []string
		labels  []string
	}{
		{
			name:    "flat and nested",
			content: "# A\n## B\n## C\n# D",
			numbers: []string{"1", "1.1", "1.2", "2"},
			labels:  []string{"1 A", " 1.1 B", " 1.2 C", "2 D"},
		},
		{
			name:    "document starting at level three",
			content: "### A\n#### B\n### C",
			numbers: []string{"1", "1.1", "2"},
			labels:  []string{"1 A", " 1.1 B", "2 C"},
		},
		{
			name:    "deeper counters reset",
			content: "# A\n## B\n### C\n## D\n### E",
			numbers: []string{"1", "1.1", "1.1.1", "1.2", "1.2.1"},
			labels:  []string{"1 A", " 1.1 B", "  1.1.1 C", " 1.2 D", "  1.2.1 E"},
		},
		{
			name:    "skipped level omits zero counter",
			content: "# A\n### B",
			numbers: []string{"1", "1.1"},
			labels:  []string{"1 A", "  1.1 B"},
		},
		{
			name:    "text starting with digit keeps indent only",
			content: "# 2024 Notes\n## 1st point",
			numbers: []string{"1", "1.1"},
			labels:  []string{"2024 Notes", " 1st point"},
		},
		{
			name:    "setext headings",
			content: "Top\n===\n\nSub\n---",
			numbers: []string{"1", "1.1"},
			labels:  []string{"1 Top", " 1.1 Sub"},
		},
		{
			name:    "inline markup is flattened",
			content: "# Use `go test` *now*",
			numbers: []string{"1"},
			labels:  []string{"1 Use go test now"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries := structure.Headings(parse(t, tt.content))
			require.Len(t, entries, len(tt.numbers))

			for i, entry := range entries {
				assert.Equal(t, tt.numbers[i], entry.Number, "number of heading %d", i)
				assert.Equal(t, tt.labels[i], entry.Label, "label of heading %d", i)
			}
		})
	}
}

func TestHeadings_Levels(t *testing.T) {
	t.Parallel()

	entries := structure.Headings(parse(t, "# A\n## B\n### C\n# D"))
	require.Len(t, entries, 4)

	assert.Equal(t, [structure.MaxDepth]int{1, 1, 1, 0, 0, 0}, entries[2].Levels)
	assert.Equal(t, [structure.MaxDepth]int{2, 0, 0, 0, 0, 0}, entries[3].Levels)
	assert.Equal(t, 3, entries[2].Level)
	assert.Equal(t, 2, entries[2].Indent)
	assert.Equal(t, 2, entries[2].Line)
	assert.Equal(t, "### C", string(entries[2].Node.Text()))
}

func TestHeadings_Deterministic(t *testing.T) {
	t.Parallel()

	doc := parse(t, "# A\n## B\n## C\n# D")
	assert.Equal(t, structure.Headings(doc), structure.Headings(doc))
}

func TestHeadings_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, structure.Headings(parse(t, "just text")))
	assert.Nil(t, structure.Headings(nil))
}

func TestHeadings_Anchors(t *testing.T) {
	t.Parallel()

	entries := structure.Headings(parse(t, "# Hello World\n## Hello World\n# Go & Rust!"))
	require.Len(t, entries, 3)

	assert.Equal(t, "hello-world", entries[0].Anchor)
	assert.Equal(t, "hello-world-1", entries[1].Anchor)
	assert.Equal(t, "go-rust", entries[2].Anchor)
}
