package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/runner"
)

// memTree writes each file under /work on an in-memory filesystem.
func memTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/work", f), []byte("# "+f+"\n"), 0o644))
	}
	return fs
}

func abs(files ...string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join("/work", f)
	}
	return out
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdFile := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(mdFile, []byte("# Test"), 0o644))

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{mdFile},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{mdFile}, files)
}

func TestDiscoverFs(t *testing.T) {
	t.Parallel()

	tree := []string{
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/deep/nested/page.md",
		"vendor/pkg/doc.md",
		"node_modules/lib/readme.md",
		"src/main.go",
		"notes.txt",
		"notes.mdx",
		".hidden.md",
		".git/config.md",
		"docs/.secret.md",
		"drafts/wip.tmp.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			opts: runner.Options{},
			want: abs("docs/api.markdown", "docs/deep/nested/page.md", "docs/guide.md",
				"drafts/wip.tmp.md", "node_modules/lib/readme.md", "readme.md", "vendor/pkg/doc.md"),
		},
		{
			name: "exclude directories",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "node_modules/**", "drafts"}},
			want: abs("docs/api.markdown", "docs/deep/nested/page.md", "docs/guide.md", "readme.md"),
		},
		{
			name: "exclude by base name",
			opts: runner.Options{
				Paths:        []string{"drafts", "readme.md"},
				ExcludeGlobs: []string{"*.tmp.md"},
			},
			want: abs("readme.md"),
		},
		{
			name: "include recursive",
			opts: runner.Options{IncludeGlobs: []string{"docs/**/*.md"}},
			want: abs("docs/deep/nested/page.md", "docs/guide.md"),
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".mdx", ".TXT"}},
			want: abs("notes.mdx", "notes.txt"),
		},
		{
			name: "overlapping paths deduplicated",
			opts: runner.Options{Paths: []string{"docs", "docs/guide.md", "."}, IncludeGlobs: []string{"docs/*"}},
			want: abs("docs/api.markdown", "docs/guide.md"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = "/work"

			files, err := runner.DiscoverFs(context.Background(), memTree(t, tree...), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.DiscoverFs(context.Background(), memTree(t), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: "/work",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.DiscoverFs(ctx, memTree(t, "a.md"), runner.Options{WorkingDir: "/work"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "real.md")
	require.NoError(t, os.WriteFile(target, []byte("# Real"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "inner.md"), []byte("x"), 0o644))

	if err := os.Symlink(target, filepath.Join(dir, "link.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.md"), filepath.Join(dir, "broken.md")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "subdir-link.md")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "link.md"),
		filepath.Join(dir, "real.md"),
		filepath.Join(dir, "sub", "inner.md"),
	}, files)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".md", ".markdown"}, runner.DefaultExtensions())
}
