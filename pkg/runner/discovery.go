package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Discover is DiscoverFs on the OS filesystem.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	return DiscoverFs(ctx, afero.NewOsFs(), opts)
}

// DiscoverFs expands opts.Paths into the Markdown files they name or
// contain. The result holds absolute paths, sorted and without duplicates.
// Directory walks skip dot entries and do not follow directory symlinks.
func DiscoverFs(ctx context.Context, fsys afero.Fs, opts Options) ([]string, error) {
	base, err := absWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	f := &finder{
		fsys:    fsys,
		base:    base,
		exts:    opts.effectiveExtensions(),
		include: opts.IncludeGlobs,
		exclude: opts.ExcludeGlobs,
	}

	for _, p := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		if err := f.add(ctx, p); err != nil {
			return nil, err
		}
	}

	found := lo.Uniq(f.found)
	slices.Sort(found)
	return found, nil
}

func absWorkDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("working directory %s: %w", dir, err)
	}
	return abs, nil
}

type finder struct {
	fsys    afero.Fs
	base    string
	exts    []string
	include []string
	exclude []string
	found   []string
}

// add collects one input path, walking it when it is a directory.
func (f *finder) add(ctx context.Context, input string) error {
	path := input
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.base, path)
	}
	path = filepath.Clean(path)

	stat, err := f.fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}
	if !stat.IsDir() {
		f.keep(path)
		return nil
	}

	if err := afero.Walk(f.fsys, path, f.visitor(ctx, path)); err != nil {
		return fmt.Errorf("walk %s: %w", input, err)
	}
	return nil
}

func (f *finder) visitor(ctx context.Context, root string) filepath.WalkFunc {
	return func(path string, info fs.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil
		}
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		hidden := strings.HasPrefix(info.Name(), ".")
		if info.IsDir() {
			if hidden || matchGlobs(f.rel(path), f.exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !f.isRegular(path, info) {
			return nil
		}

		f.keep(path)
		return nil
	}
}

// isRegular resolves symlinks so that links to files count and links to
// directories or nowhere do not.
func (f *finder) isRegular(path string, info fs.FileInfo) bool {
	if info.Mode()&fs.ModeSymlink == 0 {
		return true
	}
	target, err := f.fsys.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

// keep records path when its extension and globs admit it.
func (f *finder) keep(path string) {
	if !slices.Contains(f.exts, strings.ToLower(filepath.Ext(path))) {
		return
	}

	rel := f.rel(path)
	if matchGlobs(rel, f.exclude) {
		return
	}
	if len(f.include) > 0 && !matchGlobs(rel, f.include) {
		return
	}
	f.found = append(f.found, path)
}

func (f *finder) rel(path string) string {
	rel, err := filepath.Rel(f.base, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// matchGlobs reports whether rel matches a doublestar pattern. Patterns
// without a slash are also tried against the base name, and "dir/**"
// matches dir itself.
func matchGlobs(rel string, patterns []string) bool {
	return lo.SomeBy(patterns, func(pattern string) bool {
		pattern = filepath.ToSlash(pattern)
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
		if !strings.Contains(pattern, "/") && doublestar.MatchUnvalidated(pattern, filepath.Base(rel)) {
			return true
		}
		dir, ok := strings.CutSuffix(pattern, "/**")
		return ok && rel == dir
	})
}
