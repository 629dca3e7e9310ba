// Package session hosts the mdcore services for one editor instance: the
// shared parse cache and its notification bus, the link validator, and the
// continuation engine. Parses requested through Submit run on a bounded
// pool of background workers; results reach callers only through bus
// notifications.
package session

import (
	"context"
	"errors"
	"iter"
	"runtime"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/internal/metrics"
	"github.com/yaklabco/mdcore/pkg/cache"
	"github.com/yaklabco/mdcore/pkg/continuation"
	"github.com/yaklabco/mdcore/pkg/linkcheck"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/structure"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("session closed")

// Options configures a Session. The zero value is usable.
type Options struct {
	// Workers is the number of background parse workers.
	// 0 or negative means runtime.NumCPU().
	Workers int

	// QueueSize bounds the pending parse requests; Submit blocks while the
	// queue is full. 0 or negative means 4 per worker.
	QueueSize int

	// CacheCapacity is the number of parsed documents kept.
	// 0 or negative means cache.DefaultCapacity.
	CacheCapacity int

	// Fs is the filesystem links are resolved against. Nil means the OS.
	Fs afero.Fs

	// Extensions are extra extensions tried for links without one.
	Extensions []string

	// ContinuationDisabled starts the continuation engine disabled.
	ContinuationDisabled bool

	// Recorder receives cache and validation metrics.
	Recorder metrics.Recorder

	// Logger is the session logger. Nil means logging.Default().
	Logger *log.Logger
}

// Session composes the mdcore services around one parser.
type Session struct {
	cache     *cache.Cache
	validator *linkcheck.Validator
	engine    *continuation.Engine
	recorder  metrics.Recorder
	logger    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	jobs   chan *textbuf.Snapshot
	stop   chan struct{}

	// mu guards closed; senders register in sending before they may block
	// on jobs, and Close waits for them before closing jobs.
	mu      sync.RWMutex
	closed  bool
	sending sync.WaitGroup

	latestMu sync.Mutex
	latest   map[uuid.UUID]uint64
}

// New creates a session and starts its workers.
func New(parser structure.Parser, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	queue := opts.QueueSize
	if queue <= 0 {
		queue = workers * 4
	}

	cacheOpts := []cache.Option{
		cache.WithRecorder(recorder),
		cache.WithLogger(logger),
	}
	if opts.CacheCapacity > 0 {
		cacheOpts = append(cacheOpts, cache.WithCapacity(opts.CacheCapacity))
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	s := &Session{
		cache: cache.New(parser, cache.NewBus(), cacheOpts...),
		validator: linkcheck.New(opts.Fs,
			linkcheck.WithExtensions(opts.Extensions...),
			linkcheck.WithLogger(logger),
		),
		engine: continuation.New(parser,
			continuation.WithEnabled(!opts.ContinuationDisabled),
			continuation.WithLogger(logger),
		),
		recorder: recorder,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		group:    group,
		jobs:     make(chan *textbuf.Snapshot, queue),
		stop:     make(chan struct{}),
		latest:   make(map[uuid.UUID]uint64),
	}

	for range workers {
		group.Go(s.worker)
	}

	logger.Debug("session started", logging.FieldJobs, workers, logging.FieldCapacity, s.cache.Capacity())

	return s
}

// Cache returns the shared parse cache.
func (s *Session) Cache() *cache.Cache {
	return s.cache
}

// Bus returns the bus parse notifications are published on.
func (s *Session) Bus() *cache.Bus {
	return s.cache.Bus()
}

// Engine returns the continuation engine.
func (s *Session) Engine() *continuation.Engine {
	return s.engine
}

// Validator returns the link validator.
func (s *Session) Validator() *linkcheck.Validator {
	return s.validator
}

// Subscribe registers fn for parse notifications. It returns the function
// that removes the registration.
func (s *Session) Subscribe(fn cache.Observer) func() {
	return s.cache.Bus().Subscribe(fn)
}

// Submit queues a background parse of snap and records it as the newest
// snapshot of its buffer. Older parses still in flight are not cancelled;
// their results stay keyed under their own snapshot identity. Submit blocks
// while the queue is full and returns ErrClosed once Close has started.
// Observers may call it.
func (s *Session) Submit(snap *textbuf.Snapshot) error {
	if snap == nil {
		return cache.ErrNilSnapshot
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.sending.Add(1)
	s.mu.RUnlock()
	defer s.sending.Done()

	s.observe(snap.ID())

	select {
	case <-s.stop:
		return ErrClosed
	default:
	}

	select {
	case s.jobs <- snap:
		return nil
	case <-s.stop:
		return ErrClosed
	}
}

// observe records id as the newest version of its buffer.
func (s *Session) observe(id textbuf.ID) {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()

	if id.Version > s.latest[id.Buffer] {
		s.latest[id.Buffer] = id.Version
	}
}

// Latest returns the newest snapshot identity submitted for buffer.
func (s *Session) Latest(buffer uuid.UUID) (textbuf.ID, bool) {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()

	version, ok := s.latest[buffer]
	if !ok {
		return textbuf.ID{}, false
	}
	return textbuf.ID{Buffer: buffer, Version: version}, true
}

// IsLatest reports whether id is the newest submitted snapshot of its
// buffer. Observers use it to drop stale notifications.
func (s *Session) IsLatest(id textbuf.ID) bool {
	latest, ok := s.Latest(id.Buffer)
	return ok && latest == id
}

// Parse parses snap synchronously through the cache and, like Submit,
// records it as the newest snapshot of its buffer.
func (s *Session) Parse(ctx context.Context, snap *textbuf.Snapshot) (*mdast.Document, error) {
	if snap == nil {
		return nil, cache.ErrNilSnapshot
	}
	s.observe(snap.ID())
	return s.cache.Parse(ctx, snap)
}

// Validate checks the links of doc, resolved against filePath, and returns
// the broken ones. The check runs once per call and its count is recorded
// then; iterating the result again repeats neither.
func (s *Session) Validate(doc *mdast.Document, filePath string) iter.Seq[linkcheck.Error] {
	broken := slices.Collect(s.validator.Validate(doc, filePath))
	s.recorder.AddBrokenLinks(len(broken))
	return slices.Values(broken)
}

// OnEnter runs the continuation engine for the Enter key at caret.
func (s *Session) OnEnter(ctx context.Context, text []byte, caret int) (continuation.Action, bool) {
	return s.engine.OnEnter(ctx, text, caret)
}

// Forget drops the cached documents and the version record of buffer.
func (s *Session) Forget(buffer uuid.UUID) {
	s.cache.Forget(buffer)

	s.latestMu.Lock()
	delete(s.latest, buffer)
	s.latestMu.Unlock()
}

// Close stops accepting work, waits for queued parses to finish and
// releases the workers. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stop)
	s.sending.Wait()
	close(s.jobs)

	err := s.group.Wait()
	s.cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Session) worker() error {
	for snap := range s.jobs {
		if _, err := s.cache.Parse(s.ctx, snap); err != nil {
			s.logger.Debug("background parse failed",
				logging.FieldPath, snap.Path(),
				logging.FieldVersion, snap.ID().String(),
				logging.FieldError, err,
			)
		}
	}
	return nil
}
