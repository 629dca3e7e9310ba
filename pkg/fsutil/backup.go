package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

// BackupSuffix names the sidecar copy kept next to an edited file.
const BackupSuffix = ".mdcore.bak"

// BackupPath returns the sidecar path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup copies path to its sidecar. An existing sidecar is left alone so
// that it always holds the content from before the first edit. The result
// reports whether a copy was made; a missing path is not an error.
func Backup(ctx context.Context, fsys afero.Fs, path string) (bool, error) {
	if exists, err := afero.Exists(fsys, BackupPath(path)); err != nil || exists {
		return false, wrapBackup("backup", path, err)
	}
	return copyFile(ctx, fsys, path, BackupPath(path))
}

// Restore moves the sidecar of path back over path. The result reports
// whether a sidecar existed.
func Restore(ctx context.Context, fsys afero.Fs, path string) (bool, error) {
	restored, err := copyFile(ctx, fsys, BackupPath(path), path)
	if err != nil || !restored {
		return false, err
	}
	if err := fsys.Remove(BackupPath(path)); err != nil {
		return true, wrapBackup("restore", path, err)
	}
	return true, nil
}

// copyFile atomically copies src to dst with src's permissions, reporting
// false when src does not exist.
func copyFile(ctx context.Context, fsys afero.Fs, src, dst string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, wrapBackup("copy", src, err)
	}

	stat, err := fsys.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, wrapBackup("copy", src, err)
	}

	content, err := afero.ReadFile(fsys, src)
	if err != nil {
		return false, wrapBackup("copy", src, err)
	}
	if err := WriteAtomic(ctx, fsys, dst, content, stat.Mode().Perm()); err != nil {
		return false, wrapBackup("copy", src, err)
	}
	return true, nil
}

func wrapBackup(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}
