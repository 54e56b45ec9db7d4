package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultGenBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGenModel   = "gemini-2.0-flash"

	genTemperature = 0.2
	genTopP        = 0.95
	genTopK        = 40
)

// GeminiConfig configures the Gemini generation client.
type GeminiConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// GeminiGenerator calls the Gemini generateContent REST API.
type GeminiGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGemini creates a Gemini generation client. The API key is read from the
// environment variable named in cfg.APIKeyEnv.
func NewGemini(cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGenBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultGenModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "LLM_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("generation API key not set: %s", cfg.APIKeyEnv)
	}
	return &GeminiGenerator{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type genRequest struct {
	Contents         []genContent `json:"contents"`
	GenerationConfig genConfig    `json:"generationConfig"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []genPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate builds a prompt from the question and contexts and returns the
// model's answer text.
func (g *GeminiGenerator) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	prompt := BuildPrompt(question, contexts)
	reqBody := genRequest{
		Contents: []genContent{{Parts: []genPart{{Text: prompt}}}},
		GenerationConfig: genConfig{
			Temperature: genTemperature,
			TopP:        genTopP,
			TopK:        genTopK,
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("generate: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("generate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate: API returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out genResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("generate: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate: empty response from model")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// Close is a no-op for the REST client.
func (g *GeminiGenerator) Close() error {
	return nil
}
