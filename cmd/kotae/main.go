// Package main is the Kotae CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/generate"
	"github.com/hyperjump/kotae/internal/indexer"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/search"
	"github.com/hyperjump/kotae/internal/server"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
	"github.com/hyperjump/kotae/internal/watcher"
	"github.com/hyperjump/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory wins, so running from the project dir uses the
// project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "search":
		runSearch()
	case "upload":
		runUpload()
	case "files":
		runFiles()
	case "delete":
		runDelete()
	case "reindex":
		runReindex()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	mock := fs.Bool("mock", false, "use in-memory store and mock embedder/generator (no external services)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Bool("mock", *mock),
	)

	components, err := initializeComponents(cfg, logger, *mock)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		pipe := components.Pipeline
		watchSvc, err := watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.Recursive,
			func(ctx context.Context, path string) {
				data, readErr := os.ReadFile(path)
				if readErr != nil {
					logger.Warn("watch read failed", zap.String("path", path), zap.Error(readErr))
					return
				}
				if _, ingestErr := pipe.IngestFile(ctx, filepath.Base(path), data); ingestErr != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(ingestErr))
				}
			},
			func(ctx context.Context, path string) {
				if _, removeErr := pipe.Remove(ctx, models.DocID(filepath.Base(path))); removeErr != nil {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(removeErr))
				}
			},
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		go func() {
			if runErr := watchSvc.Run(watchCtx); runErr != nil && runErr != context.Canceled {
				logger.Warn("watcher stopped", zap.Error(runErr))
			}
		}()
	}

	srv := server.New(server.Options{
		Engine:    components.Engine,
		Pipeline:  components.Pipeline,
		Generator: components.Generator,
		Registry:  components.Registry,
		Files:     components.Files,
		Store:     components.Store,
		TopK:      cfg.Search.TopK,
		Logger:    logger,
	})
	go func() {
		if err := srv.Start(cfg.Server.Host, cfg.Server.Port); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries work
// with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	question := buildQuery(fs.Args())
	if question == "" {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}

	var resp models.AskResponse
	if err := postJSON(*serverURL+"/ask", models.AskRequest{Question: question}, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Printf("\n# %d source passage(s)\n", len(resp.Sources))
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	topK := fs.Int("top-k", 0, "number of results (0 = server default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	query := buildQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: kotae search [flags] <query>")
		os.Exit(1)
	}

	var resp models.SearchResponse
	if err := postJSON(*serverURL+"/search", models.SearchRequest{Query: query, TopK: *topK}, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if resp.Degraded {
			fmt.Println("# results degraded: one retrieval backend was unavailable")
		}
		if len(resp.Candidates) == 0 {
			fmt.Println("No results.")
			return
		}
		for i, c := range resp.Candidates {
			fmt.Printf("%d. [%s] %s (score %.1f, %s)\n", i+1, c.Source, c.Filename, c.Total, c.ContentType)
			fmt.Printf("   %s\n", utils.Truncate(c.Text, 200))
		}
		fmt.Printf("\n%d result(s) in %dms\n", len(resp.Candidates), resp.QueryTime)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runUpload() {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae upload [flags] <file>...")
		os.Exit(1)
	}

	for _, path := range fs.Args() {
		resp, err := uploadViaHTTP(*serverURL, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Upload failed for %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Uploaded %s (%d chunks)\n", resp.Filename, resp.Chunks)
	}
}

func uploadViaHTTP(serverURL, path string) (*models.UploadResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := http.Post(serverURL+"/upload", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runFiles() {
	fs := flag.NewFlagSet("files", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/files")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "List failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out models.FileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	if len(out.Files) == 0 {
		fmt.Println("No files.")
		return
	}
	for _, f := range out.Files {
		fmt.Printf("%-40s %8d bytes  %3d chunks  %s\n",
			f.Filename, f.Size, f.ChunkCount, f.Modified.Format(time.RFC3339))
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae delete [flags] <filename>...")
		os.Exit(1)
	}

	body, _ := json.Marshal(models.DeleteFilesRequest{Filenames: fs.Args()})
	req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/files", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	var out models.DeleteFilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out.Message)
	for _, f := range out.Failed {
		fmt.Printf("  failed: %s\n", f)
	}
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func runReindex() {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	var resp models.ReindexResponse
	if err := postJSON(*serverURL+"/reindex", struct{}{}, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "Reindex failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Reindexed %d file(s), %d chunk(s), %d error(s)\n", resp.Files, resp.Chunks, resp.Errors)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out struct {
		Documents int `json:"documents"`
		Chunks    int `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("documents: %d\n", out.Documents)
	fmt.Printf("chunks:    %d\n", out.Chunks)
}

func postJSON(url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Components holds initialized services.
type Components struct {
	Store     vector.Store
	Embedder  embedding.Embedder
	Generator generate.Generator
	Registry  storage.Registry
	Files     *storage.FileStore
	Engine    *search.Engine
	Pipeline  *indexer.Pipeline
}

func (c *Components) Close() {
	if c.Registry != nil {
		_ = c.Registry.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, mock bool) (*Components, error) {
	registry, err := storage.NewSQLiteRegistry(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}
	files, err := storage.NewFileStore(cfg.Storage.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	var (
		store     vector.Store
		embedder  embedding.Embedder
		generator generate.Generator
	)
	if mock {
		store = vector.NewMemoryStore()
		embedder = embedding.NewMockEmbedder(cfg.Gemini.Dimensions)
		generator = generate.NewMock()
	} else {
		store = vector.NewChromaStore(vector.ChromaConfig{
			URL:        cfg.Chroma.URL,
			Collection: cfg.Chroma.Collection,
			Timeout:    cfg.Chroma.Timeout(),
		})
		embedder, err = embedding.NewGeminiEmbedder(embedding.GeminiConfig{
			BaseURL:    cfg.Gemini.BaseURL,
			APIKeyEnv:  cfg.Gemini.APIKeyEnv,
			Model:      cfg.Gemini.EmbedModel,
			Dimensions: cfg.Gemini.Dimensions,
			Timeout:    cfg.Gemini.Timeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		generator, err = generate.NewGemini(generate.GeminiConfig{
			BaseURL:   cfg.Gemini.BaseURL,
			APIKeyEnv: cfg.Gemini.APIKeyEnv,
			Model:     cfg.Gemini.GenModel,
			Timeout:   cfg.Gemini.Timeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize generator: %w", err)
		}
	}

	engine := search.NewEngine(store, embedder, &cfg.Ranking, logger)
	chunker := indexer.NewChunker(cfg.Search.MaxChunkSize, cfg.Search.ChunkOverlap, cfg.Search.SentenceDelimiter)
	pipeline := indexer.NewPipeline(store, embedder, registry, chunker, indexer.PipelineConfig{
		QASegmentation:    cfg.Search.QASegmentationEnabled(),
		ReindexPauseEvery: cfg.Reindex.PauseEvery,
		ReindexPause:      time.Duration(cfg.Reindex.PauseSeconds) * time.Second,
	}, logger)

	return &Components{
		Store:     store,
		Embedder:  embedder,
		Generator: generator,
		Registry:  registry,
		Files:     files,
		Engine:    engine,
		Pipeline:  pipeline,
	}, nil
}

func printUsage() {
	fmt.Println(`kotae - Retrieval-augmented document QA server

Usage:
  kotae server [flags]            Start the HTTP server
  kotae ask [flags] <question>    Ask a question (answered from indexed documents)
  kotae search [flags] <query>    Hybrid search over indexed documents
  kotae upload [flags] <file>...  Upload and index documents
  kotae files [flags]             List indexed files
  kotae delete [flags] <file>...  Delete files and their chunks
  kotae reindex [flags]           Rebuild the vector index from stored files
  kotae status [flags]            Show document and chunk counts
  kotae version                   Show version
  kotae help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml)
  --debug            Enable debug logging
  --mock             Run without external services (in-memory store, mock embedder)

Client Flags (ask/search/upload/files/delete/reindex/status):
  --server string    Server URL (default: http://localhost:8000)

Search Flags:
  --top-k int        Number of results (default: server-side top_k)
  --output string    Output format: text or json (default: text)

Examples:
  kotae server
  kotae server --mock
  kotae upload handbook.pdf faq.md
  kotae ask "How do I apply for parental leave?"
  kotae search --top-k 5 annual leave
  kotae delete faq.md
  kotae reindex
  kotae status`)
}
