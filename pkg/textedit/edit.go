// Package textedit describes changes to a document as byte-range edits and
// applies them either as one batch against the original text or as a
// sequence of steps, each against the result of the previous one.
package textedit

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// IsInsert reports whether the edit adds text without removing any.
func (e TextEdit) IsInsert() bool {
	return e.StartOffset == e.EndOffset && e.NewText != ""
}

// Delta is the number of bytes the edit adds (negative when it shrinks
// the text).
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// Builder collects edits in call order.
type Builder struct {
	Edits []TextEdit
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Replace queues replacing [start, end) with text.
func (b *Builder) Replace(start, end int, text string) *Builder {
	b.Edits = append(b.Edits, TextEdit{StartOffset: start, EndOffset: end, NewText: text})
	return b
}

// Insert queues text at offset.
func (b *Builder) Insert(offset int, text string) *Builder {
	return b.Replace(offset, offset, text)
}

// Delete queues removing [start, end).
func (b *Builder) Delete(start, end int) *Builder {
	return b.Replace(start, end, "")
}
