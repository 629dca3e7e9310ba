package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdcore/internal/ui/pretty"
	"github.com/yaklabco/mdcore/pkg/runner"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stats       runner.Stats
		contains    []string
		notContains []string
	}{
		{
			name:        "clean",
			stats:       runner.Stats{FilesDiscovered: 5, FilesProcessed: 5},
			contains:    []string{"Summary", "Files checked:     5", "Broken links:      0", "Validation passed"},
			notContains: []string{"Files with issues:", "Files unreadable:"},
		},
		{
			name: "broken links",
			stats: runner.Stats{
				FilesDiscovered: 10,
				FilesProcessed:  10,
				FilesWithIssues: 3,
				ErrorsTotal:     7,
			},
			contains: []string{"Files with issues: 3", "Broken links:      7", "Validation completed with broken links"},
		},
		{
			name: "unreadable",
			stats: runner.Stats{
				FilesDiscovered: 2,
				FilesProcessed:  1,
				FilesErrored:    1,
			},
			contains: []string{"Files unreadable:  1", "Validation failed"},
		},
		{
			name: "fatal",
			stats: runner.Stats{
				FilesProcessed:  1,
				FilesWithIssues: 1,
				ErrorsTotal:     1,
				FatalTotal:      1,
			},
			contains: []string{"Validation failed"},
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := styles.FormatSummary(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, result, unwanted)
			}
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "No broken links (1 file checked)\n",
		styles.FormatSummaryOneLine(runner.Stats{FilesProcessed: 1}))

	assert.Equal(t, "3 broken links in 2 files (12 files checked)\n",
		styles.FormatSummaryOneLine(runner.Stats{FilesProcessed: 12, FilesWithIssues: 2, ErrorsTotal: 3}))

	assert.Equal(t, "1 broken link in 1 file, 2 unreadable files (4 files checked)\n",
		styles.FormatSummaryOneLine(runner.Stats{
			FilesProcessed:  4,
			FilesWithIssues: 1,
			ErrorsTotal:     1,
			FilesErrored:    2,
		}))
}
