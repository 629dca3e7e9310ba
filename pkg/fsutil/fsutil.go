// Package fsutil holds the guarded file writes used when mdcore edits a
// document in place: snapshots that detect concurrent changes, atomic
// replacement and sidecar backups. Everything runs on an afero.Fs.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrIsDirectory = errors.New("path is a directory")
	ErrModified    = errors.New("file modified since it was read")
	ErrNoSnapshot  = errors.New("nil snapshot")
)

// Snapshot records what a file looked like when it was read.
type Snapshot struct {
	Path    string
	Mode    fs.FileMode
	ModTime time.Time
	Size    int64
	Sum     [sha256.Size]byte // SHA-256 of the content
}

// Read returns the content of path together with its snapshot.
func Read(ctx context.Context, fsys afero.Fs, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	stat, err := fsys.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case err != nil:
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	case stat.IsDir():
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	snap := &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Sum:     sha256.Sum256(content),
	}
	return content, snap, nil
}

// Changed reports whether the file no longer matches the snapshot. A
// differing size or mod time decides without reading; otherwise the
// content is hashed again. A removed file has changed.
func (s *Snapshot) Changed(ctx context.Context, fsys afero.Fs) (bool, error) {
	if s == nil {
		return false, ErrNoSnapshot
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check %s: %w", s.Path, err)
	}

	stat, err := fsys.Stat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if stat.Size() != s.Size || !stat.ModTime().Equal(s.ModTime) {
		return true, nil
	}

	content, err := afero.ReadFile(fsys, s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(content) != s.Sum, nil
}
