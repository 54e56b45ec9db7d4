package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGeminiMissingKey(t *testing.T) {
	t.Setenv("KOTAE_TEST_KEY", "")
	if _, err := NewGemini(GeminiConfig{APIKeyEnv: "KOTAE_TEST_KEY"}); err == nil {
		t.Error("expected error when API key env is empty")
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath string
	var gotReq struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig struct {
			Temperature float64 `json:"temperature"`
			TopP        float64 `json:"topP"`
			TopK        int     `json:"topK"`
		} `json:"generationConfig"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": "Twenty days per year."}},
				},
			}},
		})
	}))
	defer srv.Close()

	t.Setenv("KOTAE_TEST_KEY", "secret")
	g, err := NewGemini(GeminiConfig{BaseURL: srv.URL, APIKeyEnv: "KOTAE_TEST_KEY"})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	answer, err := g.Generate(context.Background(), "How many leave days?",
		[]string{"Employees get twenty days of paid leave."})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if answer != "Twenty days per year." {
		t.Errorf("answer = %q", answer)
	}
	if !strings.HasSuffix(gotPath, ":generateContent") {
		t.Errorf("path = %q", gotPath)
	}

	gc := gotReq.GenerationConfig
	if gc.Temperature != 0.2 || gc.TopP != 0.95 || gc.TopK != 40 {
		t.Errorf("generationConfig = %+v", gc)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatalf("contents = %+v", gotReq.Contents)
	}
	prompt := gotReq.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "How many leave days?") {
		t.Error("prompt missing question")
	}
	if !strings.Contains(prompt, "twenty days of paid leave") {
		t.Error("prompt missing context")
	}
}

func TestGeminiGenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	t.Setenv("KOTAE_TEST_KEY", "secret")
	g, err := NewGemini(GeminiConfig{BaseURL: srv.URL, APIKeyEnv: "KOTAE_TEST_KEY"})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if _, err := g.Generate(context.Background(), "q", nil); err == nil {
		t.Error("expected error on empty candidates")
	}
}

func TestMockGenerator(t *testing.T) {
	m := NewMock()
	answer, err := m.Generate(context.Background(), "question", []string{"ctx"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(answer, "question") {
		t.Errorf("mock answer = %q, should echo the question", answer)
	}
}
