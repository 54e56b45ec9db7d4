package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hyperjump/kotae/internal/models"
)

// ChromaConfig configures the Chroma REST client.
type ChromaConfig struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

// ChromaStore is a minimal REST client to a Chroma server. The collection is
// created on first use if missing.
type ChromaStore struct {
	url        string
	collection string
	client     *http.Client

	mu           sync.Mutex
	collectionID string
}

// NewChromaStore creates a Chroma store client.
func NewChromaStore(cfg ChromaConfig) *ChromaStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.Collection == "" {
		cfg.Collection = "rag_docs"
	}
	return &ChromaStore{
		url:        cfg.URL,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// ensureCollection resolves (get-or-create) the collection ID once.
func (s *ChromaStore) ensureCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}
	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]any{"name": s.collection, "get_or_create": true}
	if err := s.postJSON(ctx, s.url+"/api/v1/collections", body, &resp); err != nil {
		return "", fmt.Errorf("get or create collection %q: %w", s.collection, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("collection %q: server returned no id", s.collection)
	}
	s.collectionID = resp.ID
	return s.collectionID, nil
}

// Upsert inserts or replaces chunks by ID.
func (s *ChromaStore) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	id, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
		documents[i] = ch.Text
		metadatas[i] = chunkMetadata(ch)
		embeddings[i] = ch.Embedding
	}
	body := map[string]any{
		"ids":        ids,
		"documents":  documents,
		"metadatas":  metadatas,
		"embeddings": embeddings,
	}
	return s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/upsert", s.url, id), body, nil)
}

// Query returns up to n nearest chunks by embedding distance.
func (s *ChromaStore) Query(ctx context.Context, embedding []float32, n int) ([]Hit, error) {
	if n <= 0 {
		return nil, nil
	}
	id, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        n,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp struct {
		IDs       [][]string            `json:"ids"`
		Documents [][]string            `json:"documents"`
		Metadatas [][]map[string]string `json:"metadatas"`
		Distances [][]float64           `json:"distances"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/query", s.url, id), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) == 0 {
		return nil, nil
	}
	hits := make([]Hit, 0, len(resp.IDs[0]))
	for i, chunkID := range resp.IDs[0] {
		ch := chunkFromMetadata(chunkID, at(resp.Documents, i), metaAt(resp.Metadatas, i))
		var dist float64
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			dist = resp.Distances[0][i]
		}
		hits = append(hits, Hit{Chunk: ch, Distance: dist})
	}
	return hits, nil
}

// GetAll returns every stored chunk.
func (s *ChromaStore) GetAll(ctx context.Context) ([]models.Chunk, error) {
	return s.get(ctx, nil)
}

// GetByDocument returns all chunks whose document_id metadata matches.
func (s *ChromaStore) GetByDocument(ctx context.Context, docID string) ([]models.Chunk, error) {
	return s.get(ctx, map[string]string{MetaDocumentID: docID})
}

func (s *ChromaStore) get(ctx context.Context, where map[string]string) ([]models.Chunk, error) {
	id, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"include": []string{"documents", "metadatas"}}
	if len(where) > 0 {
		body["where"] = where
	}
	var resp struct {
		IDs       []string            `json:"ids"`
		Documents []string            `json:"documents"`
		Metadatas []map[string]string `json:"metadatas"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/get", s.url, id), body, &resp); err != nil {
		return nil, err
	}
	chunks := make([]models.Chunk, 0, len(resp.IDs))
	for i, chunkID := range resp.IDs {
		var doc string
		if i < len(resp.Documents) {
			doc = resp.Documents[i]
		}
		var meta map[string]string
		if i < len(resp.Metadatas) {
			meta = resp.Metadatas[i]
		}
		chunks = append(chunks, chunkFromMetadata(chunkID, doc, meta))
	}
	return chunks, nil
}

// Delete removes chunks by ID.
func (s *ChromaStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	id, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}
	return s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/delete", s.url, id), map[string]any{"ids": ids}, nil)
}

// Count returns the number of stored chunks.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	id, err := s.ensureCollection(ctx)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/collections/%s/count", s.url, id), nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("chroma count: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("chroma count failed: %s", resp.Status)
	}
	var n int
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		return 0, fmt.Errorf("chroma count: decode: %w", err)
	}
	return n, nil
}

// Reset drops and recreates the collection.
func (s *ChromaStore) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/v1/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chroma delete collection: %w", err)
	}
	_ = resp.Body.Close()
	// 404 means the collection did not exist, which is fine for a reset.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("chroma delete collection failed: %s", resp.Status)
	}
	s.mu.Lock()
	s.collectionID = ""
	s.mu.Unlock()
	_, err = s.ensureCollection(ctx)
	return err
}

// Close is a no-op for the REST client.
func (s *ChromaStore) Close() error {
	return nil
}

func (s *ChromaStore) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("chroma: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("chroma: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chroma POST %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chroma POST %s failed: %s: %s", url, resp.Status, bytes.TrimSpace(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func chunkMetadata(ch models.Chunk) map[string]string {
	meta := map[string]string{
		MetaDocumentID:  ch.DocumentID,
		MetaFilename:    ch.Filename,
		MetaContentType: ch.ContentType,
	}
	if ch.ContentType == models.ContentTypeQAPair {
		meta[MetaQuestion] = ch.Question
		meta[MetaAnswer] = ch.Answer
	}
	return meta
}

func chunkFromMetadata(id, text string, meta map[string]string) models.Chunk {
	ch := models.Chunk{ID: id, Text: text, ContentType: models.ContentTypePlain}
	if meta == nil {
		return ch
	}
	ch.DocumentID = meta[MetaDocumentID]
	ch.Filename = meta[MetaFilename]
	if ct := meta[MetaContentType]; ct != "" {
		ch.ContentType = ct
	}
	ch.Question = meta[MetaQuestion]
	ch.Answer = meta[MetaAnswer]
	return ch
}

func at(rows [][]string, i int) string {
	if len(rows) > 0 && i < len(rows[0]) {
		return rows[0][i]
	}
	return ""
}

func metaAt(rows [][]map[string]string, i int) map[string]string {
	if len(rows) > 0 && i < len(rows[0]) {
		return rows[0][i]
	}
	return nil
}
