// Package vector provides the vector store interface and its implementations.
package vector

import (
	"context"

	"github.com/hyperjump/kotae/internal/models"
)

// Hit is one nearest-neighbor query result: the stored chunk plus its
// embedding distance to the query (0 = identical, larger = farther).
type Hit struct {
	Chunk    models.Chunk
	Distance float64
}

// Store holds chunk embeddings plus metadata and supports nearest-neighbor
// queries, exact-match filtering, and deletion. Implementations own their
// concurrency safety.
type Store interface {
	// Upsert inserts or replaces chunks by ID.
	Upsert(ctx context.Context, chunks []models.Chunk) error
	// Query returns up to n nearest chunks by embedding distance, closest first.
	Query(ctx context.Context, embedding []float32, n int) ([]Hit, error)
	// GetAll returns every stored chunk (without embeddings).
	GetAll(ctx context.Context) ([]models.Chunk, error)
	// GetByDocument returns all chunks whose document_id matches.
	GetByDocument(ctx context.Context, docID string) ([]models.Chunk, error)
	// Delete removes chunks by ID; unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error
	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
	// Reset drops every stored chunk (used by reindex).
	Reset(ctx context.Context) error
	Close() error
}

// Metadata keys used by store implementations that persist chunk fields as a
// flat metadata map.
const (
	MetaDocumentID  = "document_id"
	MetaFilename    = "filename"
	MetaContentType = "content_type"
	MetaQuestion    = "question"
	MetaAnswer      = "answer"
)
