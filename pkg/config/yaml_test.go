package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.True(t, cfg.Continuation.Enabled)
	assert.True(t, cfg.Links.Enabled)
	assert.Equal(t, 8, cfg.Cache.Capacity)
	assert.Equal(t, config.DefaultTooltipLimit, cfg.Outline.TooltipLimit)
	assert.Zero(t, cfg.Workers())

	cfg.Parse.Workers = 2
	assert.Equal(t, 2, cfg.Workers())
	cfg.Jobs = 5
	assert.Equal(t, 5, cfg.Workers())
}

func TestFlavor_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.FlavorGFM.IsValid())
	assert.True(t, config.FlavorCommonMark.IsValid())
	assert.False(t, config.Flavor("markdown").IsValid())
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.Ignore = []string{"*.md", "vendor/**"}
		original.Links.MarkdownExtensions = []string{".mdx"}
		original.Jobs = 3

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Ignore[0] = "changed"
		clone.Links.MarkdownExtensions[0] = ".txt"
		assert.Equal(t, "*.md", original.Ignore[0])
		assert.Equal(t, ".mdx", original.Links.MarkdownExtensions[0])
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	var nilConfig *config.Config
	data, err := nilConfig.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = config.NewConfig().ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "flavor: gfm")
	assert.Contains(t, string(data), "capacity: 8")
	assert.NotContains(t, string(data), "jobs")

	data, err = config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\nflavor: gfm")
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte(`
flavor: commonmark
continuation:
  enabled: false
links:
  markdown_extensions: [".mdx"]
ignore:
  - "vendor/**"
`))
		require.NoError(t, err)
		assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
		assert.False(t, cfg.Continuation.Enabled)
		assert.Equal(t, []string{".mdx"}, cfg.Links.MarkdownExtensions)
		assert.True(t, cfg.Links.Enabled)
		assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)
		assert.Equal(t, 8, cfg.Cache.Capacity)
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("flavor: [unclosed"))
		require.Error(t, err)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("flavour: gfm\n"))
		require.ErrorContains(t, err, "flavour")
	})

	t.Run("empty input keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.Equal(t, config.NewConfig(), cfg)
	})
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	minimal, err := config.GenerateTemplate(config.TemplateOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(minimal), "# mdcore configuration")

	cfg, err := config.FromYAML(minimal)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), cfg)

	full, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
	require.NoError(t, err)
	assert.Contains(t, string(full), "# Number of parse workers (0 = one per CPU).")
	assert.Contains(t, string(full), "tooltip_limit: 800")

	cfg, err = config.FromYAML(full)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), cfg)
}
