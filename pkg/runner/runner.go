package runner

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/session"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// Runner parses and validates files through a session. Each path keeps one
// text buffer across runs, so re-running over unchanged files hits the
// session cache and changed files get a new snapshot version.
type Runner struct {
	session *session.Session
	fs      afero.Fs

	mu      sync.Mutex
	buffers map[string]*textbuf.Buffer
}

// New creates a Runner reading files from fsys. A nil fsys reads the OS
// filesystem.
func New(s *session.Session, fsys afero.Fs) *Runner {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Runner{
		session: s,
		fs:      fsys,
		buffers: make(map[string]*textbuf.Buffer),
	}
}

// Session returns the session the runner works through.
func (r *Runner) Session() *session.Session {
	return r.session
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := DiscoverFs(ctx, r.fs, opts)
	if err != nil {
		return nil, err
	}

	return r.RunFiles(ctx, files, opts)
}

// RunFiles processes the given files without discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]FileOutcome, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcomes[i] = r.process(groupCtx, path, opts)
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		// Files left unscheduled after cancellation have no outcome.
		if outcome.Path != "" {
			result.add(outcome)
		}
	}

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldErrorsTotal, result.Stats.ErrorsTotal,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

// Forget drops the buffer kept for path and its cached documents.
func (r *Runner) Forget(path string) {
	r.mu.Lock()
	buf, ok := r.buffers[path]
	delete(r.buffers, path)
	r.mu.Unlock()

	if ok {
		r.session.Forget(buf.ID())
		_ = buf.Close()
	}
}

func (r *Runner) process(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}
	ctx = logging.WithFields(ctx, logging.FieldPath, path)

	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		outcome.Error = fmt.Errorf("read %s: %w", path, err)
		return outcome
	}

	snap, err := r.snapshot(path, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Snapshot = snap.ID()

	doc, err := r.session.Parse(ctx, snap)
	if err != nil {
		outcome.Error = fmt.Errorf("parse %s: %w", path, err)
		return outcome
	}
	outcome.Document = doc

	if !opts.SkipLinks {
		outcome.Links = slices.Collect(r.session.Validate(doc, path))
	}

	logging.FromContext(ctx).Debug("checked file",
		logging.FieldVersion, snap.ID().Version,
		logging.FieldErrorsTotal, len(outcome.Links),
	)

	return outcome
}

// snapshot returns the snapshot of path holding content, committing a new
// version only when the content changed.
func (r *Runner) snapshot(path string, content []byte) (*textbuf.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.buffers[path]
	if !ok {
		buf = textbuf.New(path, content)
		r.buffers[path] = buf
		return buf.Current(), nil
	}

	if current := buf.Current(); bytes.Equal(current.Text(), content) {
		return current, nil
	}

	snap, err := buf.Replace(content)
	if err != nil {
		return nil, fmt.Errorf("update buffer %s: %w", path, err)
	}
	return snap, nil
}
