package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestNewGeminiEmbedderMissingKey(t *testing.T) {
	t.Setenv("KOTAE_TEST_KEY", "")
	if _, err := NewGeminiEmbedder(GeminiConfig{APIKeyEnv: "KOTAE_TEST_KEY"}); err == nil {
		t.Error("expected error when API key env is empty")
	}
}

func TestGeminiEmbed(t *testing.T) {
	var gotPath, gotKey, gotTask string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		var req struct {
			Model   string `json:"model"`
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			TaskType string `json:"taskType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotTask = req.TaskType
		if req.Model != "models/text-embedding-004" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Content.Parts) != 1 || req.Content.Parts[0].Text != "annual leave" {
			t.Errorf("parts = %+v", req.Content.Parts)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	t.Setenv("KOTAE_TEST_KEY", "secret")
	e, err := NewGeminiEmbedder(GeminiConfig{
		BaseURL:   srv.URL,
		APIKeyEnv: "KOTAE_TEST_KEY",
	})
	if err != nil {
		t.Fatalf("NewGeminiEmbedder: %v", err)
	}

	got, err := e.Embed(context.Background(), "annual leave", TaskQuery)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !reflect.DeepEqual(got, []float32{0.1, 0.2, 0.3}) {
		t.Errorf("embedding = %v", got)
	}
	if !strings.HasSuffix(gotPath, "/models/text-embedding-004:embedContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotTask != "RETRIEVAL_QUERY" {
		t.Errorf("taskType = %q, want RETRIEVAL_QUERY", gotTask)
	}
}

func TestGeminiTaskTypeMapping(t *testing.T) {
	if got := geminiTaskType(TaskDocument); got != "RETRIEVAL_DOCUMENT" {
		t.Errorf("geminiTaskType(TaskDocument) = %q", got)
	}
	if got := geminiTaskType(TaskQuery); got != "RETRIEVAL_QUERY" {
		t.Errorf("geminiTaskType(TaskQuery) = %q", got)
	}
}

func TestGeminiEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("KOTAE_TEST_KEY", "secret")
	e, err := NewGeminiEmbedder(GeminiConfig{BaseURL: srv.URL, APIKeyEnv: "KOTAE_TEST_KEY"})
	if err != nil {
		t.Fatalf("NewGeminiEmbedder: %v", err)
	}
	if _, err := e.Embed(context.Background(), "text", TaskDocument); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	a, _ := e.Embed(context.Background(), "same text", TaskDocument)
	b, _ := e.Embed(context.Background(), "same text", TaskQuery)
	if !reflect.DeepEqual(a, b) {
		t.Error("same text should embed identically")
	}
	c, _ := e.Embed(context.Background(), "different text", TaskDocument)
	if reflect.DeepEqual(a, c) {
		t.Error("different texts should embed differently")
	}
	if len(a) != 16 {
		t.Errorf("dimension = %d, want 16", len(a))
	}
}
