// Package indexer provides text chunking, QA segmentation, and the ingestion pipeline.
package indexer

import "strings"

// Chunker splits text into bounded, overlapping sentence-based chunks.
// Sizes are counted in runes so CJK text chunks the same as ASCII.
type Chunker struct {
	maxLen    int
	overlap   int
	delimiter string
}

// NewChunker creates a chunker. maxLen bounds the chunk size, overlap is the
// number of trailing runes carried into the next chunk, and delimiter is the
// sentence-terminal delimiter (e.g. "." or "。").
func NewChunker(maxLen, overlap int, delimiter string) *Chunker {
	if delimiter == "" {
		delimiter = "."
	}
	return &Chunker{maxLen: maxLen, overlap: overlap, delimiter: delimiter}
}

// Chunk splits text into ordered chunk texts. Sentences accumulate into a
// buffer; when the next sentence would push the buffer past maxLen the buffer
// is closed as a chunk and the next buffer is seeded with the closed buffer's
// last overlap runes. A single sentence longer than maxLen is emitted as its
// own oversized chunk rather than split further. Empty input yields nil.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	var current []rune
	for _, sentence := range strings.Split(text, c.delimiter) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		unit := []rune(sentence + c.delimiter)
		if len(current) > 0 && len(current)+len(unit) > c.maxLen {
			chunks = append(chunks, strings.TrimSpace(string(current)))
			seed := current
			if len(seed) > c.overlap {
				seed = seed[len(seed)-c.overlap:]
			}
			current = append(append([]rune(nil), seed...), unit...)
			continue
		}
		current = append(current, unit...)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.TrimSpace(string(current)))
	}
	return chunks
}
