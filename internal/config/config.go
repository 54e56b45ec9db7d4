// Package config loads the YAML configuration file and fills in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kotae/internal/ranking"
)

// Config is the top-level application configuration.
type Config struct {
	Debug   bool            `yaml:"debug"`
	Server  ServerConfig    `yaml:"server"`
	Storage StorageConfig   `yaml:"storage"`
	Gemini  GeminiConfig    `yaml:"gemini"`
	Chroma  ChromaConfig    `yaml:"chroma"`
	Search  SearchConfig    `yaml:"search"`
	Ranking ranking.Weights `yaml:"ranking"`
	Watch   WatchConfig     `yaml:"watch"`
	Reindex ReindexConfig   `yaml:"reindex"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	UploadsDir   string `yaml:"uploads_dir"`
}

type GeminiConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	EmbedModel     string `yaml:"embed_model"`
	GenModel       string `yaml:"gen_model"`
	Dimensions     int    `yaml:"dimensions"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (g *GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type ChromaConfig struct {
	URL            string `yaml:"url"`
	Collection     string `yaml:"collection"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c *ChromaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SearchConfig struct {
	TopK              int    `yaml:"top_k"`
	MaxChunkSize      int    `yaml:"max_chunk_size"`
	ChunkOverlap      int    `yaml:"chunk_overlap"`
	SentenceDelimiter string `yaml:"sentence_delimiter"`
	// QASegmentation defaults to enabled; set to false to always chunk plain.
	QASegmentation *bool `yaml:"qa_segmentation"`
}

type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   bool     `yaml:"recursive"`
}

type ReindexConfig struct {
	PauseEvery   int `yaml:"pause_every"`
	PauseSeconds int `yaml:"pause_seconds"`
}

// Load reads the YAML config at path. A missing file is not an error: the
// defaults are returned so the server can start with zero configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// QASegmentationEnabled resolves the tri-state flag.
func (c *SearchConfig) QASegmentationEnabled() bool {
	return c.QASegmentation == nil || *c.QASegmentation
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
