// Package embedding provides text embedding through an external provider.
package embedding

import "context"

// TaskType is the embedding task hint passed to the provider.
type TaskType string

const (
	// TaskDocument marks content embedded for storage and later retrieval.
	TaskDocument TaskType = "retrieval_document"
	// TaskQuery marks a search query embedded for retrieval.
	TaskQuery TaskType = "retrieval_query"
)

// Embedder produces fixed-length vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string, task TaskType) ([]float32, error)
	Dimensions() int
	Close() error
}
