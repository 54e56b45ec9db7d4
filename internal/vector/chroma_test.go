package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

// fakeChroma emulates the subset of the Chroma REST API the client uses.
type fakeChroma struct {
	collectionID string
	upserts      int
	lastUpsert   map[string]any
	deleted      []string
}

func (f *fakeChroma) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": f.collectionID})
	})
	prefix := "/api/v1/collections/" + f.collectionID
	mux.HandleFunc(prefix+"/upsert", func(w http.ResponseWriter, r *http.Request) {
		f.upserts++
		json.NewDecoder(r.Body).Decode(&f.lastUpsert)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(prefix+"/query", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ids":       [][]string{{"faq_chunk_0", "doc_chunk_1"}},
			"documents": [][]string{{"Question: Q?\nAnswer: A.", "plain text"}},
			"metadatas": [][]map[string]string{{
				{
					MetaDocumentID:  "faq",
					MetaFilename:    "faq.txt",
					MetaContentType: models.ContentTypeQAPair,
					MetaQuestion:    "Q?",
					MetaAnswer:      "A.",
				},
				{
					MetaDocumentID:  "doc",
					MetaFilename:    "doc.txt",
					MetaContentType: models.ContentTypePlain,
				},
			}},
			"distances": [][]float64{{0.1, 0.4}},
		})
	})
	mux.HandleFunc(prefix+"/get", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Where map[string]string `json:"where"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		ids := []string{"faq_chunk_0", "doc_chunk_1"}
		docs := []string{"first", "second"}
		metas := []map[string]string{
			{MetaDocumentID: "faq", MetaFilename: "faq.txt", MetaContentType: models.ContentTypePlain},
			{MetaDocumentID: "doc", MetaFilename: "doc.txt", MetaContentType: models.ContentTypePlain},
		}
		if req.Where[MetaDocumentID] == "faq" {
			ids, docs, metas = ids[:1], docs[:1], metas[:1]
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ids": ids, "documents": docs, "metadatas": metas,
		})
	})
	mux.HandleFunc(prefix+"/delete", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.deleted = append(f.deleted, req.IDs...)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(prefix+"/count", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "2")
	})
	return mux
}

func newFakeChroma(t *testing.T) (*fakeChroma, *ChromaStore) {
	t.Helper()
	fake := &fakeChroma{collectionID: "col-123"}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	store := NewChromaStore(ChromaConfig{URL: srv.URL, Collection: "rag_docs"})
	return fake, store
}

func TestChromaUpsert(t *testing.T) {
	fake, store := newFakeChroma(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []models.Chunk{{
		ID:          "faq_chunk_0",
		DocumentID:  "faq",
		Filename:    "faq.txt",
		Text:        "Question: Q?\nAnswer: A.",
		ContentType: models.ContentTypeQAPair,
		Question:    "Q?",
		Answer:      "A.",
		Embedding:   []float32{0.1, 0.2},
	}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if fake.upserts != 1 {
		t.Fatalf("upsert called %d times, want 1", fake.upserts)
	}
	ids, _ := fake.lastUpsert["ids"].([]any)
	if len(ids) != 1 || ids[0] != "faq_chunk_0" {
		t.Errorf("upsert ids = %v", ids)
	}
	metas, _ := fake.lastUpsert["metadatas"].([]any)
	if len(metas) != 1 {
		t.Fatalf("upsert metadatas = %v", metas)
	}
	meta, _ := metas[0].(map[string]any)
	if meta[MetaQuestion] != "Q?" || meta[MetaContentType] != models.ContentTypeQAPair {
		t.Errorf("qa metadata not carried: %v", meta)
	}
}

func TestChromaQuery(t *testing.T) {
	_, store := newFakeChroma(t)

	hits, err := store.Query(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Query returned %d hits, want 2", len(hits))
	}
	first := hits[0]
	if first.Chunk.ID != "faq_chunk_0" || first.Distance != 0.1 {
		t.Errorf("first hit = %q, distance %v", first.Chunk.ID, first.Distance)
	}
	if first.Chunk.ContentType != models.ContentTypeQAPair || first.Chunk.Question != "Q?" {
		t.Errorf("qa metadata not restored: %+v", first.Chunk)
	}
	if hits[1].Chunk.DocumentID != "doc" {
		t.Errorf("second hit document = %q", hits[1].Chunk.DocumentID)
	}
}

func TestChromaGetByDocument(t *testing.T) {
	_, store := newFakeChroma(t)

	chunks, err := store.GetByDocument(context.Background(), "faq")
	if err != nil {
		t.Fatalf("GetByDocument: %v", err)
	}
	if len(chunks) != 1 || chunks[0].DocumentID != "faq" {
		t.Errorf("GetByDocument = %+v", chunks)
	}

	all, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetAll returned %d chunks, want 2", len(all))
	}
}

func TestChromaDeleteAndCount(t *testing.T) {
	fake, store := newFakeChroma(t)
	ctx := context.Background()

	if err := store.Delete(ctx, []string{"faq_chunk_0"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "faq_chunk_0" {
		t.Errorf("deleted = %v", fake.deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestChromaServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewChromaStore(ChromaConfig{URL: srv.URL})
	if _, err := store.GetAll(context.Background()); err == nil {
		t.Error("expected error from failing server")
	}
}
