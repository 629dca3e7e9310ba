package textedit

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ValidationError reports an edit whose range does not fit the text.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError reports two edits of one batch that touch the same bytes.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset, e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// Validate returns a ValidationError for the first edit that is not a
// well-formed range within a text of size bytes.
func Validate(edits []TextEdit, size int) error {
	for _, e := range edits {
		var problem string
		switch {
		case e.StartOffset < 0:
			problem = "start offset is negative"
		case e.EndOffset < e.StartOffset:
			problem = "end offset is before start offset"
		case e.EndOffset > size:
			problem = fmt.Sprintf("end offset %d exceeds content length %d", e.EndOffset, size)
		default:
			continue
		}
		return &ValidationError{Edit: e, Message: problem}
	}
	return nil
}

// Prepare validates a batch and returns a copy ordered by position. Edits
// that overlap yield a ConflictError; the input is never reordered.
func Prepare(edits []TextEdit, size int) ([]TextEdit, error) {
	if err := Validate(edits, size); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset {
			return nil, &ConflictError{Edit1: sorted[i-1], Edit2: sorted[i]}
		}
	}
	return sorted, nil
}

// Apply rewrites content with a prepared batch whose offsets all refer to
// content. The input slice is not modified.
func Apply(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += e.Delta()
	}

	var out strings.Builder
	out.Grow(size)

	prev := 0
	for _, e := range edits {
		out.Write(content[prev:e.StartOffset])
		out.WriteString(e.NewText)
		prev = e.EndOffset
	}
	out.Write(content[prev:])

	return []byte(out.String())
}

// ApplySequential applies edits in order, each against the text left by
// the ones before it, like consecutive keystrokes in an editor.
func ApplySequential(content []byte, edits []TextEdit) ([]byte, error) {
	for _, e := range edits {
		step := []TextEdit{e}
		if err := Validate(step, len(content)); err != nil {
			return nil, err
		}
		content = Apply(content, step)
	}
	return content, nil
}
