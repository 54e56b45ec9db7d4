// Package models defines core data structures for documents, chunks, queries, and candidates.
package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Content types for chunks.
const (
	// ContentTypePlain is an ordinary text chunk.
	ContentTypePlain = "plain"
	// ContentTypeQAPair is a chunk structured as a question and its answer.
	ContentTypeQAPair = "qa_pair"
)

// Document represents one ingested source text, identified by the stem of its filename.
type Document struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	Size       int64     `json:"size" db:"size"`
	ChunkCount int       `json:"chunk_count" db:"chunk_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Chunk is the unit of embedding and retrieval. Once ingested it is owned by
// the vector store; Question and Answer are set only for qa_pair chunks.
type Chunk struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Filename    string    `json:"filename"`
	Text        string    `json:"text"`
	ContentType string    `json:"content_type"`
	Question    string    `json:"question,omitempty"`
	Answer      string    `json:"answer,omitempty"`
	Embedding   []float32 `json:"-"`
}

// Segment is one unit produced by QA segmentation: either a question/answer
// pair or a plain piece of text that could not be split.
type Segment struct {
	Text        string
	ContentType string
	Question    string
	Answer      string
}

// DocID derives the stable document ID from a filename: the base name with
// the extension stripped. Re-ingesting the same filename reuses the same ID.
func DocID(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ChunkID builds the positional chunk identifier "{document_id}_chunk_{index}".
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, index)
}
