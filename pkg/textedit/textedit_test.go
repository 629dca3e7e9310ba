package textedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/textedit"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []textedit.TextEdit
		want    string
	}{
		{"empty edits returns original", "hello world", nil, "hello world"},
		{
			"single replacement", "hello world",
			[]textedit.TextEdit{{StartOffset: 0, EndOffset: 5, NewText: "hi"}},
			"hi world",
		},
		{
			"single insertion", "hello world",
			[]textedit.TextEdit{{StartOffset: 5, EndOffset: 5, NewText: " beautiful"}},
			"hello beautiful world",
		},
		{
			"single deletion", "hello world",
			[]textedit.TextEdit{{StartOffset: 5, EndOffset: 11}},
			"hello",
		},
		{
			"multiple non-overlapping edits", "hello world",
			[]textedit.TextEdit{
				{StartOffset: 0, EndOffset: 5, NewText: "hi"},
				{StartOffset: 6, EndOffset: 11, NewText: "there"},
			},
			"hi there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, string(textedit.Apply([]byte(tt.content), tt.edits)))
		})
	}
}

func TestApplySequential(t *testing.T) {
	t.Parallel()

	content := []byte("- item")
	edits := textedit.NewBuilder().
		Insert(6, "\n").
		Insert(7, "- ").
		Edits

	got, err := textedit.ApplySequential(content, edits)
	require.NoError(t, err)
	assert.Equal(t, "- item\n- ", string(got))
	assert.Equal(t, "- item", string(content), "input must not change")

	// The second edit is only valid after the first grew the content.
	err = textedit.Validate(edits[1:], len(content))
	var verr *textedit.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestApplySequential_InvalidEdit(t *testing.T) {
	t.Parallel()

	_, err := textedit.ApplySequential([]byte("abc"), []textedit.TextEdit{{StartOffset: 2, EndOffset: 9}})
	var verr *textedit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "exceeds content length 3")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    textedit.TextEdit
		wantMsg string
	}{
		{"valid", textedit.TextEdit{StartOffset: 0, EndOffset: 3}, ""},
		{"negative start", textedit.TextEdit{StartOffset: -1, EndOffset: 1}, "start offset is negative"},
		{"inverted", textedit.TextEdit{StartOffset: 2, EndOffset: 1}, "end offset is before start offset"},
		{"past end", textedit.TextEdit{StartOffset: 0, EndOffset: 4}, "exceeds content length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := textedit.Validate([]textedit.TextEdit{tt.edit}, 3)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	edits := []textedit.TextEdit{
		{StartOffset: 4, EndOffset: 5, NewText: "b"},
		{StartOffset: 0, EndOffset: 1, NewText: "a"},
	}

	prepared, err := textedit.Prepare(edits, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, prepared[0].StartOffset)
	assert.Equal(t, 4, edits[0].StartOffset, "input must not be reordered")

	_, err = textedit.Prepare([]textedit.TextEdit{
		{StartOffset: 0, EndOffset: 3},
		{StartOffset: 2, EndOffset: 4},
	}, 5)
	var cerr *textedit.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "overlapping edits: [0:3] and [2:4]", cerr.Error())

	empty, err := textedit.Prepare(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTextEdit(t *testing.T) {
	t.Parallel()

	insert := textedit.TextEdit{StartOffset: 2, EndOffset: 2, NewText: "xy"}
	assert.True(t, insert.IsInsert())
	assert.Equal(t, 2, insert.Delta())

	replace := textedit.TextEdit{StartOffset: 0, EndOffset: 5, NewText: "a"}
	assert.False(t, replace.IsInsert())
	assert.Equal(t, -4, replace.Delta())

	builder := textedit.NewBuilder().Delete(1, 2).Insert(0, "z")
	assert.Len(t, builder.Edits, 2)
	assert.Equal(t, "", builder.Edits[0].NewText)
}
