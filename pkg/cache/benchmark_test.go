package cache_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/mdcore/pkg/cache"
	"github.com/yaklabco/mdcore/pkg/parser/goldmark"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

func BenchmarkCache_Hit(b *testing.B) {
	c := cache.New(goldmark.New(goldmark.FlavorGFM), cache.NewBus())
	buf := textbuf.New("bench.md", []byte(strings.Repeat("# Title\n\n- item\n\n", 200)))
	defer buf.Close()

	snap := buf.Current()
	if _, err := c.Parse(context.Background(), snap); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := c.Parse(context.Background(), snap); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCache_Edit(b *testing.B) {
	c := cache.New(goldmark.New(goldmark.FlavorGFM), cache.NewBus())
	buf := textbuf.New("bench.md", []byte(strings.Repeat("# Title\n\n- item\n\n", 200)))
	defer buf.Close()

	b.ReportAllocs()
	for range b.N {
		snap, err := buf.Insert(0, []byte("x"))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := c.Parse(context.Background(), snap); err != nil {
			b.Fatal(err)
		}
	}
}
