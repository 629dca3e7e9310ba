package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/cache"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/parser/goldmark"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// countingParser counts calls to the wrapped parser.
type countingParser struct {
	inner cache.Parser
	calls atomic.Int32
}

func (p *countingParser) Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error) {
	p.calls.Add(1)
	return p.inner.Parse(ctx, path, content)
}

func newCountingParser() *countingParser {
	return &countingParser{inner: goldmark.New(goldmark.FlavorGFM)}
}

// countingRecorder records cache metrics.
type countingRecorder struct {
	hits, misses, evictions, parses atomic.Int32
	entries                         atomic.Int32
}

func (r *countingRecorder) IncCacheHit()                       { r.hits.Add(1) }
func (r *countingRecorder) IncCacheMiss()                      { r.misses.Add(1) }
func (r *countingRecorder) IncCacheEviction()                  { r.evictions.Add(1) }
func (r *countingRecorder) SetCacheEntries(n int)              { r.entries.Store(int32(n)) }
func (r *countingRecorder) ObserveParseDuration(time.Duration) { r.parses.Add(1) }
func (r *countingRecorder) AddBrokenLinks(int)                 {}

func TestCache_ParseIdempotent(t *testing.T) {
	t.Parallel()

	parser := newCountingParser()
	bus := cache.NewBus()
	c := cache.New(parser, bus)

	var events []cache.ParsedEvent
	bus.Subscribe(func(ev cache.ParsedEvent) {
		events = append(events, ev)
	})

	buf := textbuf.New("docs/a.md", []byte("# A\n\ntext"))
	snap := buf.Current()

	first, err := c.Parse(context.Background(), snap)
	require.NoError(t, err)
	second, err := c.Parse(context.Background(), snap)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), parser.calls.Load())
	require.Len(t, events, 1)
	assert.Same(t, first, events[0].Document)
	assert.Equal(t, "docs/a.md", events[0].Path)
	assert.Equal(t, snap.ID(), events[0].Snapshot)
}

func TestCache_ParseTextIgnoresTextForKnownID(t *testing.T) {
	t.Parallel()

	c := cache.New(newCountingParser(), nil)
	id := textbuf.New("", nil).Current().ID()

	first, err := c.ParseText(context.Background(), id, []byte("# one"), "")
	require.NoError(t, err)
	second, err := c.ParseText(context.Background(), id, []byte("# two"), "")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "# one", string(second.Content))
}

func TestCache_NewVersionParsesAgain(t *testing.T) {
	t.Parallel()

	parser := newCountingParser()
	c := cache.New(parser, nil)

	var events atomic.Int32
	c.Bus().Subscribe(func(cache.ParsedEvent) { events.Add(1) })

	buf := textbuf.New("a.md", []byte("- a"))
	v1 := buf.Current()
	v2, err := buf.Insert(3, []byte("\n- b"))
	require.NoError(t, err)

	doc1, err := c.Parse(context.Background(), v1)
	require.NoError(t, err)
	doc2, err := c.Parse(context.Background(), v2)
	require.NoError(t, err)

	assert.NotSame(t, doc1, doc2)
	assert.Equal(t, int32(2), parser.calls.Load())
	assert.Equal(t, int32(2), events.Load())
	assert.Equal(t, 2, c.Len())

	// The stale version stays cached under its own identity.
	again, err := c.Parse(context.Background(), v1)
	require.NoError(t, err)
	assert.Same(t, doc1, again)
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	parser := newCountingParser()
	c := cache.New(parser, nil)

	var events atomic.Int32
	c.Bus().Subscribe(func(cache.ParsedEvent) { events.Add(1) })

	snap := textbuf.New("a.md", []byte("# Heading\n\n1. one\n2. two\n")).Current()

	const workers = 32
	docs := make([]*mdast.Document, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := c.Parse(context.Background(), snap)
			assert.NoError(t, err)
			docs[i] = doc
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), parser.calls.Load())
	assert.Equal(t, int32(1), events.Load())
	for _, doc := range docs {
		assert.Same(t, docs[0], doc)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	rec := &countingRecorder{}
	parser := newCountingParser()
	c := cache.New(parser, nil, cache.WithCapacity(2), cache.WithRecorder(rec))
	assert.Equal(t, 2, c.Capacity())

	a := textbuf.New("a.md", []byte("a")).Current()
	b := textbuf.New("b.md", []byte("b")).Current()
	d := textbuf.New("d.md", []byte("d")).Current()

	ctx := context.Background()
	_, err := c.Parse(ctx, a)
	require.NoError(t, err)
	_, err = c.Parse(ctx, b)
	require.NoError(t, err)

	// Touch a so b becomes the oldest entry.
	_, err = c.Parse(ctx, a)
	require.NoError(t, err)

	_, err = c.Parse(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Lookup(a.ID())
	assert.True(t, ok)
	_, ok = c.Lookup(b.ID())
	assert.False(t, ok)
	_, ok = c.Lookup(d.ID())
	assert.True(t, ok)

	assert.Equal(t, int32(1), rec.hits.Load())
	assert.Equal(t, int32(3), rec.misses.Load())
	assert.Equal(t, int32(3), rec.parses.Load())
	assert.Equal(t, int32(1), rec.evictions.Load())
	assert.Equal(t, int32(2), rec.entries.Load())
}

func TestCache_DefaultCapacity(t *testing.T) {
	t.Parallel()

	c := cache.New(newCountingParser(), nil, cache.WithCapacity(0))
	assert.Equal(t, cache.DefaultCapacity, c.Capacity())

	for i := range cache.DefaultCapacity + 3 {
		_, err := c.ParseText(context.Background(), textbuf.ID{Version: uint64(i + 1)}, []byte("x"), "")
		require.NoError(t, err)
	}
	assert.Equal(t, cache.DefaultCapacity, c.Len())
}

func TestCache_Forget(t *testing.T) {
	t.Parallel()

	c := cache.New(newCountingParser(), nil)
	buf := textbuf.New("a.md", []byte("a"))
	other := textbuf.New("b.md", []byte("b"))

	ctx := context.Background()
	_, err := c.Parse(ctx, buf.Current())
	require.NoError(t, err)
	snap, err := buf.Replace([]byte("aa"))
	require.NoError(t, err)
	_, err = c.Parse(ctx, snap)
	require.NoError(t, err)
	_, err = c.Parse(ctx, other.Current())
	require.NoError(t, err)

	assert.Equal(t, 2, c.Forget(buf.ID()))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Lookup(other.Current().ID())
	assert.True(t, ok)
}

func TestCache_ObserverMayUseCache(t *testing.T) {
	t.Parallel()

	c := cache.New(newCountingParser(), nil)
	snap := textbuf.New("a.md", []byte("text")).Current()

	found := make(chan bool, 1)
	c.Bus().Subscribe(func(ev cache.ParsedEvent) {
		// Would deadlock if the event were published under the cache lock.
		_, ok := c.Lookup(ev.Snapshot)
		found <- ok
	})

	_, err := c.Parse(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, <-found)
}

func TestCache_Errors(t *testing.T) {
	t.Parallel()

	parser := newCountingParser()
	c := cache.New(parser, nil)

	var events atomic.Int32
	c.Bus().Subscribe(func(cache.ParsedEvent) { events.Add(1) })

	_, err := c.Parse(context.Background(), nil)
	require.ErrorIs(t, err, cache.ErrNilSnapshot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := textbuf.New("a.md", []byte("text")).Current()
	doc, err := c.Parse(ctx, snap)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, doc)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int32(0), events.Load())

	// A later request with a live context parses normally.
	doc, err = c.Parse(context.Background(), snap)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, int32(1), events.Load())
}
