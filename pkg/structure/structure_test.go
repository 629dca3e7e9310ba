package structure_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/parser/goldmark"
)

func parse(t *testing.T, content string) *mdast.Document {
	t.Helper()

	doc, err := goldmark.New(goldmark.FlavorGFM).Parse(context.Background(), "test.md", []byte(content))
	require.NoError(t, err)
	return doc
}
