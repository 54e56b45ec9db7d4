package vector

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/hyperjump/kotae/internal/models"
)

// MemoryStore is an in-memory Store using brute-force cosine distance.
// Suitable for tests and small corpora when no Chroma server is available.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]models.Chunk
	order  []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]models.Chunk)}
}

// Upsert inserts or replaces chunks by ID, preserving first-insert order.
func (m *MemoryStore) Upsert(ctx context.Context, chunks []models.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range chunks {
		if _, exists := m.chunks[ch.ID]; !exists {
			m.order = append(m.order, ch.ID)
		}
		m.chunks[ch.ID] = ch
	}
	return nil
}

// Query returns the n nearest chunks by cosine distance (1 - cosine similarity).
func (m *MemoryStore) Query(ctx context.Context, embedding []float32, n int) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || len(m.order) == 0 {
		return nil, nil
	}
	hits := make([]Hit, 0, len(m.order))
	for _, id := range m.order {
		ch := m.chunks[id]
		hits = append(hits, Hit{Chunk: ch, Distance: cosineDistance(embedding, ch.Embedding)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if n > len(hits) {
		n = len(hits)
	}
	return hits[:n], nil
}

// GetAll returns every stored chunk in insertion order.
func (m *MemoryStore) GetAll(ctx context.Context) ([]models.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Chunk, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, stripEmbedding(m.chunks[id]))
	}
	return out, nil
}

// GetByDocument returns all chunks whose DocumentID matches.
func (m *MemoryStore) GetByDocument(ctx context.Context, docID string) ([]models.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Chunk
	for _, id := range m.order {
		if ch := m.chunks[id]; ch.DocumentID == docID {
			out = append(out, stripEmbedding(ch))
		}
	}
	return out, nil
}

// Delete removes chunks by ID; unknown IDs are ignored.
func (m *MemoryStore) Delete(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if remove[id] {
			delete(m.chunks, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return nil
}

// Count returns the number of stored chunks.
func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}

// Reset drops every stored chunk.
func (m *MemoryStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = make(map[string]models.Chunk)
	m.order = nil
	return nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}

func stripEmbedding(ch models.Chunk) models.Chunk {
	ch.Embedding = nil
	return ch
}

// cosineDistance returns 1 - cosine similarity; mismatched or zero vectors
// are treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
