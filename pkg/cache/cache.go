// Package cache maps snapshot identities to parsed documents. Each distinct
// snapshot is parsed at most once; every fresh parse is announced on a Bus.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/google/uuid"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/internal/metrics"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// DefaultCapacity is the number of documents kept when no capacity is set.
const DefaultCapacity = 8

// ErrNilSnapshot is returned when Parse is called without a snapshot.
var ErrNilSnapshot = errors.New("nil snapshot")

// Parser parses Markdown content into a Document.
//
// Implementations must be total over their input: the only error they may
// return is context cancellation. They must also be safe for concurrent use.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error)
}

// Cache holds parsed documents keyed by textbuf.ID.
//
// Parsing happens inside a single critical section, so concurrent requests
// for the same snapshot observe the same *mdast.Document. Entries are never
// mutated after insertion and are evicted least-recently-used first.
type Cache struct {
	parser   Parser
	bus      *Bus
	capacity int
	recorder metrics.Recorder
	logger   *log.Logger

	mu      sync.Mutex
	entries *linkedhashmap.Map // textbuf.ID -> *mdast.Document, oldest first
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity bounds the number of cached documents. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a cache that parses with parser and publishes to bus.
// A nil bus gets a private one, available through Bus.
func New(parser Parser, bus *Bus, opts ...Option) *Cache {
	if bus == nil {
		bus = NewBus()
	}

	c := &Cache{
		parser:   parser,
		bus:      bus,
		capacity: DefaultCapacity,
		recorder: metrics.NoopRecorder{},
		logger:   logging.Default(),
		entries:  linkedhashmap.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Bus returns the bus parse notifications are published on.
func (c *Cache) Bus() *Bus {
	return c.bus
}

// Capacity returns the maximum number of cached documents.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Parse returns the document for snap, parsing it on first request.
func (c *Cache) Parse(ctx context.Context, snap *textbuf.Snapshot) (*mdast.Document, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	return c.ParseText(ctx, snap.ID(), snap.Text(), snap.Path())
}

// ParseText returns the document for id, parsing text on first request.
// For a known id the cached instance is returned unchanged and text is
// ignored. A fresh parse publishes a ParsedEvent after the cache lock is
// released.
func (c *Cache) ParseText(ctx context.Context, id textbuf.ID, text []byte, path string) (*mdast.Document, error) {
	doc, fresh, err := c.lookupOrParse(ctx, id, text, path)
	if err != nil {
		return nil, err
	}

	if fresh {
		c.bus.Publish(ParsedEvent{Document: doc, Path: path, Snapshot: id})
	}

	return doc, nil
}

func (c *Cache) lookupOrParse(ctx context.Context, id textbuf.ID, text []byte, path string) (*mdast.Document, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.entries.Get(id); ok {
		c.touch(id, value)
		c.recorder.IncCacheHit()
		return value.(*mdast.Document), false, nil //nolint:forcetypeassert // only documents are stored
	}

	c.recorder.IncCacheMiss()

	start := time.Now()
	doc, err := c.parser.Parse(ctx, path, text)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", id, err)
	}
	elapsed := time.Since(start)
	c.recorder.ObserveParseDuration(elapsed)

	c.entries.Put(id, doc)
	c.evict()
	c.recorder.SetCacheEntries(c.entries.Size())

	c.logger.Debug("parsed snapshot",
		logging.FieldBuffer, id.Buffer,
		logging.FieldVersion, id.Version,
		logging.FieldPath, path,
		logging.FieldDuration, elapsed,
	)

	return doc, true, nil
}

// touch moves id to the most recently used end.
func (c *Cache) touch(id textbuf.ID, value any) {
	c.entries.Remove(id)
	c.entries.Put(id, value)
}

func (c *Cache) evict() {
	for c.entries.Size() > c.capacity {
		it := c.entries.Iterator()
		if !it.First() {
			return
		}
		c.entries.Remove(it.Key())
		c.recorder.IncCacheEviction()
	}
}

// Lookup returns the cached document for id without parsing. A hit counts
// as a use for eviction purposes.
func (c *Cache) Lookup(id textbuf.ID) (*mdast.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries.Get(id)
	if !ok {
		return nil, false
	}
	c.touch(id, value)
	return value.(*mdast.Document), true //nolint:forcetypeassert // only documents are stored
}

// Forget drops every cached version of a buffer and returns how many
// entries were removed.
func (c *Cache) Forget(buffer uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.entries.Keys() {
		if id, ok := key.(textbuf.ID); ok && id.Buffer == buffer {
			c.entries.Remove(id)
			removed++
		}
	}
	c.recorder.SetCacheEntries(c.entries.Size())
	return removed
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Size()
}
