package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotae/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	size        INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at DESC);
`

// SQLiteRegistry stores document metadata in a SQLite database.
type SQLiteRegistry struct {
	db *sql.DB
}

// NewSQLiteRegistry opens (creating if needed) the registry database at path.
func NewSQLiteRegistry(path string) (*SQLiteRegistry, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteRegistry{db: db}, nil
}

// UpsertDocument inserts the document or updates it in place, preserving the
// original created_at on update.
func (r *SQLiteRegistry) UpsertDocument(ctx context.Context, doc models.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, size, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			size = excluded.size,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Filename, doc.Size, doc.ChunkCount, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// GetDocument returns the document and whether it exists.
func (r *SQLiteRegistry) GetDocument(ctx context.Context, id string) (models.Document, bool, error) {
	var doc models.Document
	err := r.db.QueryRowContext(ctx, `
		SELECT id, filename, size, chunk_count, created_at, updated_at
		FROM documents WHERE id = ?`, id).
		Scan(&doc.ID, &doc.Filename, &doc.Size, &doc.ChunkCount, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Document{}, false, nil
	}
	if err != nil {
		return models.Document{}, false, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, true, nil
}

// DeleteDocument removes the document row. Deleting an unknown ID is not an
// error.
func (r *SQLiteRegistry) DeleteDocument(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// ListDocuments returns all documents, most recently updated first.
func (r *SQLiteRegistry) ListDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, size, chunk_count, created_at, updated_at
		FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Size, &doc.ChunkCount,
			&doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of registered documents.
func (r *SQLiteRegistry) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
