package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

// PipelineConfig tunes the ingestion pipeline.
type PipelineConfig struct {
	// QASegmentation enables question/answer pair detection on ingest.
	QASegmentation bool
	// ReindexPauseEvery pauses the reindex walk after this many files.
	ReindexPauseEvery int
	// ReindexPause is the pause duration between reindex batches.
	ReindexPause time.Duration
}

// Pipeline turns raw document text into embedded chunks in the vector store
// and records the document in the registry.
type Pipeline struct {
	store    vector.Store
	embedder embedding.Embedder
	registry storage.Registry
	chunker  *Chunker
	cfg      PipelineConfig
	log      *zap.Logger
}

// NewPipeline wires the ingestion pipeline.
func NewPipeline(store vector.Store, embedder embedding.Embedder, registry storage.Registry, chunker *Chunker, cfg PipelineConfig, log *zap.Logger) *Pipeline {
	if cfg.ReindexPauseEvery <= 0 {
		cfg.ReindexPauseEvery = 10
	}
	if cfg.ReindexPause <= 0 {
		cfg.ReindexPause = 5 * time.Second
	}
	return &Pipeline{
		store:    store,
		embedder: embedder,
		registry: registry,
		chunker:  chunker,
		cfg:      cfg,
		log:      log,
	}
}

// segments splits the text into either question/answer segments or plain
// chunks, depending on configuration and content. QA detection can fire on
// procedural keywords in ordinary prose; segmentation only stands when it
// produced at least one qa_pair, and plain leftovers longer than maxLen are
// re-chunked so every plain segment honors the chunker bound.
func (p *Pipeline) segments(text string) []models.Segment {
	if p.cfg.QASegmentation && DetectQA(text) {
		if segs := SegmentQA(text); hasQAPair(segs) {
			return p.rechunkPlain(segs)
		}
	}
	return p.plainSegments(text)
}

func (p *Pipeline) plainSegments(text string) []models.Segment {
	var segs []models.Segment
	for _, chunk := range p.chunker.Chunk(text) {
		segs = append(segs, models.Segment{Text: chunk, ContentType: models.ContentTypePlain})
	}
	return segs
}

// rechunkPlain re-splits plain segments that exceed the chunker's maxLen.
// qa_pair segments pass through untouched.
func (p *Pipeline) rechunkPlain(segs []models.Segment) []models.Segment {
	var out []models.Segment
	for _, seg := range segs {
		if seg.ContentType == models.ContentTypePlain && len([]rune(seg.Text)) > p.chunker.maxLen {
			out = append(out, p.plainSegments(seg.Text)...)
			continue
		}
		out = append(out, seg)
	}
	return out
}

func hasQAPair(segs []models.Segment) bool {
	for _, seg := range segs {
		if seg.ContentType == models.ContentTypeQAPair {
			return true
		}
	}
	return false
}

// Ingest chunks, embeds, and stores the text under the document derived from
// filename. Existing chunks for the same document are removed first, so
// re-ingesting a shrunk document leaves no stale chunks behind. Embedding or
// store failures abort the ingest and are returned to the caller; chunks
// already written stay in place.
func (p *Pipeline) Ingest(ctx context.Context, filename, text string) (int, error) {
	docID := models.DocID(filename)

	old, err := p.store.GetByDocument(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("ingest %s: lookup existing chunks: %w", filename, err)
	}
	if len(old) > 0 {
		ids := make([]string, len(old))
		for i, ch := range old {
			ids[i] = ch.ID
		}
		if err := p.store.Delete(ctx, ids); err != nil {
			return 0, fmt.Errorf("ingest %s: delete stale chunks: %w", filename, err)
		}
	}

	segs := p.segments(text)
	for i, seg := range segs {
		chunk := models.Chunk{
			ID:          models.ChunkID(docID, i),
			DocumentID:  docID,
			Filename:    filename,
			Text:        seg.Text,
			ContentType: seg.ContentType,
			Question:    seg.Question,
			Answer:      seg.Answer,
		}
		emb, err := p.embedder.Embed(ctx, chunk.Text, embedding.TaskDocument)
		if err != nil {
			return i, fmt.Errorf("ingest %s: embed chunk %d: %w", filename, i, err)
		}
		chunk.Embedding = emb
		if err := p.store.Upsert(ctx, []models.Chunk{chunk}); err != nil {
			return i, fmt.Errorf("ingest %s: store chunk %d: %w", filename, i, err)
		}
	}

	doc := models.Document{
		ID:         docID,
		Filename:   filename,
		Size:       int64(len(text)),
		ChunkCount: len(segs),
	}
	if err := p.registry.UpsertDocument(ctx, doc); err != nil {
		return len(segs), fmt.Errorf("ingest %s: register document: %w", filename, err)
	}

	p.log.Info("document ingested",
		zap.String("document", docID),
		zap.String("filename", filename),
		zap.Int("chunks", len(segs)))
	return len(segs), nil
}

// IngestFile extracts text from the file content and ingests it.
func (p *Pipeline) IngestFile(ctx context.Context, filename string, data []byte) (int, error) {
	text, err := extract.Text(filename, data)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		p.log.Warn("file has no extractable text", zap.String("filename", filename))
		return 0, nil
	}
	return p.Ingest(ctx, filename, text)
}

// Remove deletes all chunks of the document and its registry entry. It
// returns the number of chunks removed; removing an unknown document is not
// an error and returns zero.
func (p *Pipeline) Remove(ctx context.Context, docID string) (int, error) {
	chunks, err := p.store.GetByDocument(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("remove %s: lookup chunks: %w", docID, err)
	}
	if len(chunks) > 0 {
		ids := make([]string, len(chunks))
		for i, ch := range chunks {
			ids[i] = ch.ID
		}
		if err := p.store.Delete(ctx, ids); err != nil {
			return 0, fmt.Errorf("remove %s: delete chunks: %w", docID, err)
		}
	}
	if err := p.registry.DeleteDocument(ctx, docID); err != nil {
		return len(chunks), fmt.Errorf("remove %s: deregister: %w", docID, err)
	}
	p.log.Info("document removed", zap.String("document", docID), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// ReindexStats summarizes a reindex run.
type ReindexStats struct {
	Files  int
	Chunks int
	Errors []string
}

// Reindex drops the whole vector store and re-ingests every supported file
// under dir. The walk pauses periodically so a large corpus does not hammer
// the embedding API. Per-file failures are collected, not fatal.
func (p *Pipeline) Reindex(ctx context.Context, dir string) (ReindexStats, error) {
	var stats ReindexStats

	if err := p.store.Reset(ctx); err != nil {
		return stats, fmt.Errorf("reindex: reset store: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("reindex: read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		n, err := p.IngestFile(ctx, entry.Name(), data)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		stats.Files++
		stats.Chunks += n

		if stats.Files%p.cfg.ReindexPauseEvery == 0 {
			p.log.Info("reindex pausing",
				zap.Int("files", stats.Files),
				zap.Duration("pause", p.cfg.ReindexPause))
			select {
			case <-time.After(p.cfg.ReindexPause):
			case <-ctx.Done():
				return stats, ctx.Err()
			}
		}
	}

	p.log.Info("reindex complete",
		zap.Int("files", stats.Files),
		zap.Int("chunks", stats.Chunks),
		zap.Int("errors", len(stats.Errors)))
	return stats, nil
}
