package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantErrors []string
		wantWarn   int
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{
			name:       "bad log level",
			mutate:     func(c *config.Config) { c.LogLevel = "loud" },
			wantErrors: []string{"log_level: invalid log level \"loud\"; must be one of: debug, info, warn, error"},
		},
		{
			name:   "warning is an accepted level",
			mutate: func(c *config.Config) { c.LogLevel = "WARNING" },
		},
		{
			name: "bounds",
			mutate: func(c *config.Config) {
				c.Parse.Workers = -1
				c.Outline.TooltipLimit = 0
			},
			wantErrors: []string{
				"parse.workers: must be >= 0, got -1",
				"outline.tooltip_limit: must be >= 1, got 0",
			},
		},
		{
			name:       "empty extension",
			mutate:     func(c *config.Config) { c.Links.MarkdownExtensions = []string{"."} },
			wantErrors: []string{"links.markdown_extensions[0]: extension must not be empty"},
		},
		{
			name:     "extension without dot",
			mutate:   func(c *config.Config) { c.Links.MarkdownExtensions = []string{"mdx", ".mkd"} },
			wantWarn: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			result := Validate(cfg)
			require.Len(t, result.Errors, len(tt.wantErrors))
			for i, want := range tt.wantErrors {
				assert.Equal(t, want, result.Errors[i].Error())
			}
			assert.Len(t, result.Warnings, tt.wantWarn)
			assert.Equal(t, len(tt.wantErrors) == 0, result.Valid())
			if result.Valid() {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.yml: flavor: bad", (&ValidationError{FilePath: "a.yml", Field: "flavor", Message: "bad"}).Error())
	assert.Equal(t, "bad", (&ValidationError{Message: "bad"}).Error())
	assert.Nil(t, Validate(nil).Err())
}
