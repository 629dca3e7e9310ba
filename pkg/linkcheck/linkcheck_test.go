package linkcheck_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/linkcheck"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/parser/goldmark"
)

func parse(t *testing.T, path, content string) *mdast.Document {
	t.Helper()

	doc, err := goldmark.New(goldmark.FlavorGFM).Parse(context.Background(), path, []byte(content))
	require.NoError(t, err)
	return doc
}

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte("x"), 0o644))
	}
	return fsys
}

func TestValidate_MissingFile(t *testing.T) {
	t.Parallel()

	content := "[x](./b.md)"
	doc := parse(t, "/docs/a.md", content)

	errs := slices.Collect(linkcheck.New(memFs(t, "/docs/a.md")).Validate(doc, "/docs/a.md"))
	require.Len(t, errs, 1)

	e := errs[0]
	assert.Equal(t, linkcheck.CodeMissingFile, e.ErrorCode)
	assert.False(t, e.Fatal)
	assert.Equal(t, "/docs/a.md", e.File)
	assert.Equal(t, "./b.md", content[e.Span.Start:e.Span.End()])
	assert.Equal(t, 0, e.Line)
	assert.Equal(t, 4, e.Column)
	assert.Contains(t, e.Message, "./b.md")
}

func TestValidate_ExistingFile(t *testing.T) {
	t.Parallel()

	doc := parse(t, "/docs/a.md", "[x](./b.md)")

	errs := slices.Collect(linkcheck.New(memFs(t, "/docs/a.md", "/docs/b.md")).Validate(doc, "/docs/a.md"))
	assert.Empty(t, errs)
}

func TestValidator_Resolves(t *testing.T) {
	t.Parallel()

	fsys := memFs(t,
		"/docs/a.md",
		"/docs/b.md",
		"/docs/guide.markdown",
		"/docs/sub/c.md",
		"/docs/img/logo.png",
		"/docs/with space.md",
		"/other/x.md",
	)
	v := linkcheck.New(fsys)

	tests := []struct {
		name        string
		destination string
		want        bool
	}{
		{"absolute url", "https://example.com/missing.md", true},
		{"other scheme", "ftp://host/file", true},
		{"root relative", "/nowhere.md", true},
		{"fragment", "#section", true},
		{"mailto", "mailto:me@example.com", true},
		{"backslash", `sub\c.md`, false},
		{"backslash with scheme still accepted", `https://x\y`, true},
		{"existing sibling", "b.md", true},
		{"existing dot slash", "./b.md", true},
		{"existing subdir", "sub/c.md", true},
		{"existing parent", "../other/x.md", true},
		{"missing", "missing.md", false},
		{"query stripped", "b.md?raw=1", true},
		{"fragment stripped", "b.md#intro", true},
		{"missing with fragment", "nope.md#intro", false},
		{"extensionless md", "b", true},
		{"extensionless markdown", "guide", true},
		{"extensionless missing", "nope", false},
		{"wrong extension not retried", "b.txt", false},
		{"image", "img/logo.png", true},
		{"directory", "sub", true},
		{"percent encoded", "with%20space.md", true},
		{"invalid escape kept literal", "bad%zz.md", false},
		{"empty", "", true},
		{"fragment only after strip", "?x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, v.Resolves(tt.destination, "/docs/a.md"))
		})
	}
}

func TestValidator_ResolvesWithoutFilePath(t *testing.T) {
	t.Parallel()

	v := linkcheck.New(memFs(t))
	assert.True(t, v.Resolves("missing.md", ""))
	assert.False(t, v.Resolves(`a\b.md`, ""))
}

func TestValidate_DocumentOrderAndKinds(t *testing.T) {
	t.Parallel()

	content := "# T\n\n[one](one.md) and ![img](pic.png)\n\n> [two][ref]\n\n<https://example.com>\n\n[ref]: two.md\n"
	doc := parse(t, "/a.md", content)

	errs := slices.Collect(linkcheck.New(memFs(t)).Validate(doc, "/a.md"))
	require.Len(t, errs, 3)

	assert.Equal(t, "one.md", content[errs[0].Span.Start:errs[0].Span.End()])
	assert.Equal(t, "pic.png", content[errs[1].Span.Start:errs[1].Span.End()])

	// Reference links have no URL span and point at the whole link.
	assert.Equal(t, "[two][ref]", content[errs[2].Span.Start:errs[2].Span.End()])
	assert.Equal(t, 4, errs[2].Line)
	assert.Equal(t, 2, errs[2].Column)
}

func TestValidate_LazyAndRestartable(t *testing.T) {
	t.Parallel()

	doc := parse(t, "/a.md", "[a](a1.md) [b](b1.md) [c](c1.md)")

	counting := &countingFs{Fs: memFs(t)}
	seq := linkcheck.New(counting).Validate(doc, "/a.md")

	for range seq {
		break
	}
	assert.Equal(t, 1, counting.stats, "only the first link should be checked")

	assert.Len(t, slices.Collect(seq), 3)
	assert.Len(t, slices.Collect(seq), 3)
}

func TestValidate_FailOpen(t *testing.T) {
	t.Parallel()

	doc := parse(t, "/a.md", "[a](broken.md)")
	fsys := &failingFs{Fs: memFs(t), err: errors.New("device busy")}

	errs := slices.Collect(linkcheck.New(fsys).Validate(doc, "/a.md"))
	assert.Empty(t, errs)
}

func TestValidate_NilDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, slices.Collect(linkcheck.New(memFs(t)).Validate(nil, "/a.md")))
}

func TestValidate_OsFs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/present.md", []byte("x"), 0o600))

	doc := parse(t, dir+"/index.md", "[p](present.md) [m](absent.md)")
	errs := slices.Collect(linkcheck.New(nil).Validate(doc, dir+"/index.md"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "absent.md")
}

func TestWithExtensions(t *testing.T) {
	t.Parallel()

	v := linkcheck.New(memFs(t, "/docs/page.mdx"), linkcheck.WithExtensions("mdx", " ", ".md"))
	assert.True(t, v.Resolves("page", "/docs/a.md"))
	assert.Contains(t, v.Extensions(), ".mdx")

	count := 0
	for _, ext := range v.Extensions() {
		if ext == ".md" {
			count++
		}
	}
	assert.Equal(t, 1, count, "extensions should be deduplicated")
}

func TestMarkdownExtensions(t *testing.T) {
	t.Parallel()

	exts := linkcheck.MarkdownExtensions()
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".markdown")
	assert.Equal(t, ".md", exts[0])
}

func TestError_String(t *testing.T) {
	t.Parallel()

	e := linkcheck.Error{File: "a.md", Message: "gone", Line: 2, Column: 4, ErrorCode: linkcheck.CodeMissingFile}
	assert.Equal(t, "a.md:3:5: gone [missing-file]", e.String())
}

type countingFs struct {
	afero.Fs
	stats int
}

func (c *countingFs) Stat(name string) (fs.FileInfo, error) {
	c.stats++
	return c.Fs.Stat(name)
}

type failingFs struct {
	afero.Fs
	err error
}

func (f *failingFs) Stat(string) (fs.FileInfo, error) {
	return nil, f.err
}
