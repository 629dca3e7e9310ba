package fsutil

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileMode applies when WriteAtomic is given a zero mode.
const DefaultFileMode fs.FileMode = 0o644

// WriteAtomic replaces path with content by writing a sibling temp file
// and renaming it into place. Readers observe the old or the new file,
// never a partial one; a failed write leaves path untouched.
func WriteAtomic(ctx context.Context, fsys afero.Fs, path string, content []byte, mode fs.FileMode) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fsys.Remove(tmp.Name())
		}
	}()

	steps := []struct {
		what string
		run  func() error
	}{
		{"write", func() error { _, err := tmp.Write(content); return err }},
		{"sync", tmp.Sync},
		{"close", tmp.Close},
		{"chmod", func() error { return fsys.Chmod(tmp.Name(), orDefault(mode)) }},
		{"rename", func() error { return fsys.Rename(tmp.Name(), path) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("write %s: %s temp file: %w", path, step.what, err)
		}
	}
	return nil
}

// Replace writes content over the file snap was taken from, keeping its
// permissions. It fails with ErrModified when the file changed since.
func Replace(ctx context.Context, fsys afero.Fs, snap *Snapshot, content []byte) error {
	changed, err := snap.Changed(ctx, fsys)
	if err != nil {
		return err
	}
	if changed {
		return fmt.Errorf("%w: %s", ErrModified, snap.Path)
	}
	return WriteAtomic(ctx, fsys, snap.Path, content, snap.Mode.Perm())
}

func orDefault(mode fs.FileMode) fs.FileMode {
	if mode == 0 {
		return DefaultFileMode
	}
	return mode
}
