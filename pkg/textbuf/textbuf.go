// Package textbuf provides versioned text buffers that hand out immutable
// snapshots. A snapshot's ID is the identity the document cache keys on.
package textbuf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrClosed is returned when editing a buffer after Close.
	ErrClosed = errors.New("buffer closed")

	// ErrOutOfRange is returned when an edit range falls outside the text.
	ErrOutOfRange = errors.New("edit range out of bounds")
)

// ID identifies one version of one buffer. Two snapshots share an ID only
// if they are the same version of the same buffer.
type ID struct {
	Buffer  uuid.UUID
	Version uint64
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id.Buffer == uuid.Nil && id.Version == 0
}

// String returns "<buffer>@<version>".
func (id ID) String() string {
	return fmt.Sprintf("%s@%d", id.Buffer, id.Version)
}

// Snapshot is an immutable view of buffer text at one version.
type Snapshot struct {
	id   ID
	path string
	text []byte
}

// NewSnapshot creates a standalone snapshot for hosts that manage their own
// identities. The text is copied.
func NewSnapshot(id ID, path string, text []byte) *Snapshot {
	return &Snapshot{id: id, path: path, text: clone(text)}
}

// ID returns the snapshot identity.
func (s *Snapshot) ID() ID { return s.id }

// Path returns the file path associated with the buffer, possibly empty.
func (s *Snapshot) Path() string { return s.path }

// Text returns the snapshot text. Callers must not modify it.
func (s *Snapshot) Text() []byte { return s.text }

// Len returns the text length in bytes.
func (s *Snapshot) Len() int { return len(s.text) }

// Buffer is a mutable text buffer. Every edit produces a new Snapshot with
// the next version; earlier snapshots remain valid.
// A Buffer is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	id      uuid.UUID
	path    string
	current *Snapshot
	closed  bool
}

// New creates a buffer holding text at version 1.
func New(path string, text []byte) *Buffer {
	id := uuid.New()
	return &Buffer{
		id:      id,
		path:    path,
		current: &Snapshot{id: ID{Buffer: id, Version: 1}, path: path, text: clone(text)},
	}
}

// ID returns the buffer identity shared by all its snapshots.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Path returns the associated file path.
func (b *Buffer) Path() string { return b.path }

// Current returns the latest snapshot.
func (b *Buffer) Current() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}

// Replace swaps the entire text and returns the new snapshot.
func (b *Buffer) Replace(text []byte) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	return b.commit(clone(text)), nil
}

// ReplaceRange replaces text[start:end] with repl and returns the new
// snapshot. An empty range inserts; an empty repl deletes.
func (b *Buffer) ReplaceRange(start, end int, repl []byte) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	old := b.current.text
	if start < 0 || end < start || end > len(old) {
		return nil, fmt.Errorf("replace [%d,%d) in %d bytes: %w", start, end, len(old), ErrOutOfRange)
	}

	text := make([]byte, 0, len(old)-(end-start)+len(repl))
	text = append(text, old[:start]...)
	text = append(text, repl...)
	text = append(text, old[end:]...)

	return b.commit(text), nil
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text []byte) (*Snapshot, error) {
	return b.ReplaceRange(offset, offset, text)
}

// Close marks the buffer closed. Existing snapshots stay usable.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	b.closed = true
	return nil
}

func (b *Buffer) commit(text []byte) *Snapshot {
	next := &Snapshot{
		id:   ID{Buffer: b.id, Version: b.current.id.Version + 1},
		path: b.path,
		text: text,
	}
	b.current = next
	return next
}

func clone(text []byte) []byte {
	if text == nil {
		return []byte{}
	}
	cp := make([]byte, len(text))
	copy(cp, text)
	return cp
}
