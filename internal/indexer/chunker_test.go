package indexer

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkEmpty(t *testing.T) {
	c := NewChunker(100, 10, ".")
	if got := c.Chunk(""); got != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", got)
	}
	if got := c.Chunk("   \n\t "); got != nil {
		t.Errorf("Chunk(blank) = %v, want nil", got)
	}
}

func TestChunkSingleSentence(t *testing.T) {
	c := NewChunker(100, 10, ".")
	got := c.Chunk("Hello world.")
	if !reflect.DeepEqual(got, []string{"Hello world."}) {
		t.Errorf("Chunk = %v, want [Hello world.]", got)
	}
}

func TestChunkSplitWithOverlap(t *testing.T) {
	c := NewChunker(20, 5, ".")
	got := c.Chunk("aaaa. bbbb. cccc. dddd.")
	want := []string{"aaaa. bbbb. cccc.", "cccc. dddd."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk = %v, want %v", got, want)
	}
}

func TestChunkBound(t *testing.T) {
	maxLen, overlap := 50, 10
	c := NewChunker(maxLen, overlap, ".")
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("one short sentence here.")
	}
	for i, chunk := range c.Chunk(sb.String()) {
		// Each sentence fits in maxLen, so chunks stay within maxLen plus the
		// overlap seed carried from the previous chunk.
		if n := utf8.RuneCountInString(chunk); n > maxLen+overlap {
			t.Errorf("chunk %d has %d runes, want <= %d", i, n, maxLen+overlap)
		}
	}
}

func TestChunkOversizedSentence(t *testing.T) {
	c := NewChunker(5, 2, ".")
	got := c.Chunk("abcdefghij.")
	if len(got) != 1 {
		t.Fatalf("Chunk = %v, want one oversized chunk", got)
	}
	if got[0] != "abcdefghij." {
		t.Errorf("chunk = %q, want full sentence", got[0])
	}
}

func TestChunkCJKDelimiter(t *testing.T) {
	c := NewChunker(10, 2, "。")
	got := c.Chunk("これは文です。次の文です。")
	if len(got) != 2 {
		t.Fatalf("Chunk = %v, want 2 chunks", got)
	}
	if !strings.HasSuffix(got[0], "。") {
		t.Errorf("chunk %q should end with the delimiter", got[0])
	}
}

func TestChunkSkipsEmptySentences(t *testing.T) {
	c := NewChunker(100, 10, ".")
	got := c.Chunk("one... two.")
	if len(got) != 1 {
		t.Fatalf("Chunk = %v, want 1 chunk", got)
	}
	if strings.Contains(got[0], "..") {
		t.Errorf("empty sentences should be dropped, got %q", got[0])
	}
}
