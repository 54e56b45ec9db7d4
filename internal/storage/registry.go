package storage

import (
	"context"

	"github.com/hyperjump/kotae/internal/models"
)

// Registry tracks ingested documents and their chunk counts.
type Registry interface {
	UpsertDocument(ctx context.Context, doc models.Document) error
	GetDocument(ctx context.Context, id string) (models.Document, bool, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]models.Document, error)
	CountDocuments(ctx context.Context) (int, error)
	Close() error
}
