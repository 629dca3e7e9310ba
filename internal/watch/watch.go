// Package watch reports batches of changed Markdown files under a set of
// directory trees.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"

	"github.com/yaklabco/mdcore/internal/logging"
)

// DefaultDebounce is the quiet period after the last event before a batch
// is delivered.
const DefaultDebounce = 200 * time.Millisecond

// Options configures Run.
type Options struct {
	// Roots are the files or directories to watch. Directories are watched
	// recursively, skipping hidden directories.
	Roots []string

	// Extensions are the file extensions reported (lowercase, with dot).
	Extensions []string

	// Debounce is the quiet period before a batch is delivered.
	// 0 or negative means DefaultDebounce.
	Debounce time.Duration

	// Logger receives watcher diagnostics. Nil means logging.Default().
	Logger *log.Logger
}

// Batch is a set of paths that changed during one debounce window.
// Both lists are sorted; a path appears in at most one of them.
type Batch struct {
	Changed []string
	Removed []string
}

// Run watches opts.Roots until ctx is cancelled, calling fn with each
// batch of changes. fn runs on the watch goroutine; events arriving while
// it runs are collected into the next batch.
func Run(ctx context.Context, opts Options, fn func(Batch)) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	for _, root := range opts.Roots {
		if err := addRecursive(watcher, root, logger); err != nil {
			return err
		}
	}

	p := &pending{changed: make(map[string]bool)}
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, ev.Name, logger)
					continue
				}
			}
			if !matches(ev.Name, opts.Extensions) {
				continue
			}
			logger.Debug("file event", logging.FieldPath, ev.Name, logging.FieldEvent, ev.Op.String())
			p.add(ev)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)

		case <-timer.C:
			if batch := p.flush(); len(batch.Changed)+len(batch.Removed) > 0 {
				fn(batch)
			}
		}
	}
}

// pending accumulates events; true marks a change, false a removal.
type pending struct {
	changed map[string]bool
}

func (p *pending) add(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		p.changed[ev.Name] = false
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		p.changed[ev.Name] = true
	}
}

func (p *pending) flush() Batch {
	var batch Batch
	for path, present := range p.changed {
		// A rename target arrives as Create; a file removed then recreated
		// in one window is reported as changed.
		if !present {
			if _, err := os.Stat(path); err == nil {
				present = true
			}
		}
		if present {
			batch.Changed = append(batch.Changed, path)
		} else {
			batch.Removed = append(batch.Removed, path)
		}
	}
	clear(p.changed)
	slices.Sort(batch.Changed)
	slices.Sort(batch.Removed)
	return batch
}

// addRecursive watches root and every non-hidden directory below it. A
// file root watches its parent directory.
func addRecursive(w *fsnotify.Watcher, root string, logger *log.Logger) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("watch add failed", logging.FieldPath, path, logging.FieldError, err)
		}
		return nil
	})
}

// matches reports whether path is a visible file with one of exts.
func matches(path string, exts []string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return lo.Contains(exts, ext)
}
