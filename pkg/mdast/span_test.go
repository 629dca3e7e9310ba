package mdast_test

import (
	"testing"

	"github.com/yaklabco/mdcore/pkg/mdast"
)

func TestNewSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end int
		expected   mdast.Span
	}{
		{"normal", 2, 5, mdast.Span{Start: 2, Len: 3}},
		{"empty", 4, 4, mdast.Span{Start: 4, Len: 0}},
		{"inverted", 5, 2, mdast.Span{Start: 5, Len: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mdast.NewSpan(tt.start, tt.end); got != tt.expected {
				t.Errorf("NewSpan(%d, %d) = %+v, want %+v", tt.start, tt.end, got, tt.expected)
			}
		})
	}
}

func TestSpan_ContainsAndCovers(t *testing.T) {
	t.Parallel()

	outer := mdast.NewSpan(10, 20)

	if !outer.Contains(10) || !outer.Contains(19) {
		t.Error("expected bounds to be contained")
	}
	if outer.Contains(20) || outer.Contains(9) {
		t.Error("end offset is exclusive")
	}

	if !outer.Covers(mdast.NewSpan(12, 20)) {
		t.Error("expected inner span to be covered")
	}
	if outer.Covers(mdast.NewSpan(12, 21)) {
		t.Error("span past end must not be covered")
	}

	if got := outer.Union(mdast.NewSpan(5, 12)); got != mdast.NewSpan(5, 20) {
		t.Errorf("unexpected union %+v", got)
	}
}

func TestSpan_Slice(t *testing.T) {
	t.Parallel()

	content := []byte("hello world")

	tests := []struct {
		name     string
		span     mdast.Span
		expected string
	}{
		{"inside", mdast.NewSpan(0, 5), "hello"},
		{"clamped end", mdast.NewSpan(6, 100), "world"},
		{"past end", mdast.NewSpan(50, 60), ""},
		{"negative start", mdast.Span{Start: -3, Len: 5}, "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := string(tt.span.Slice(content)); got != tt.expected {
				t.Errorf("Slice = %q, want %q", got, tt.expected)
			}
		})
	}
}
