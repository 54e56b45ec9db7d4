package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/search"
)

const maxUploadSize = 32 << 20 // 32 MiB

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	result := s.engine.Search(r.Context(), question, s.topK)
	texts := search.Texts(result.Candidates)

	answer, err := s.generator.Generate(r.Context(), question, texts)
	if err != nil {
		s.log.Error("answer generation failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "answer generation failed")
		return
	}
	s.respondJSON(w, http.StatusOK, models.AskResponse{Answer: answer, Sources: texts})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	result := s.engine.Search(r.Context(), req.Query, topK)
	s.respondJSON(w, http.StatusOK, models.SearchResponse{
		Query:      result.Query,
		Texts:      search.Texts(result.Candidates),
		Candidates: result.Candidates,
		Degraded:   result.Degraded,
		QueryTime:  result.QueryTime.Milliseconds(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !extract.Supported(header.Filename) {
		s.respondError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported file type: %s", header.Filename))
		return
	}

	if _, err := s.files.Save(header.Filename, file); err != nil {
		s.log.Error("upload save failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	data, err := s.files.Read(header.Filename)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read stored file")
		return
	}

	chunks, err := s.pipeline.IngestFile(r.Context(), header.Filename, data)
	if err != nil {
		s.log.Error("upload ingest failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("ingest failed: %v", err))
		return
	}

	s.respondJSON(w, http.StatusOK, models.UploadResponse{
		Message:  "file uploaded and indexed",
		Filename: header.Filename,
		Chunks:   chunks,
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	docs, err := s.registry.ListDocuments(r.Context())
	if err != nil {
		s.log.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list files")
		return
	}
	files := make([]models.FileInfo, 0, len(docs))
	for _, doc := range docs {
		files = append(files, models.FileInfo{
			Filename:   doc.Filename,
			Size:       doc.Size,
			ChunkCount: doc.ChunkCount,
			Modified:   doc.UpdatedAt,
		})
	}
	s.respondJSON(w, http.StatusOK, models.FileListResponse{Files: files})
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	data, err := s.files.Read(filename)
	if err != nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("file not found: %s", filename))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteFiles(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteFilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Filenames) == 0 {
		s.respondError(w, http.StatusBadRequest, "filenames is required")
		return
	}

	resp := models.DeleteFilesResponse{Deleted: []string{}, Failed: []string{}}
	for _, filename := range req.Filenames {
		docID := models.DocID(filename)
		if _, err := s.pipeline.Remove(r.Context(), docID); err != nil {
			s.log.Error("delete failed", zap.String("filename", filename), zap.Error(err))
			resp.Failed = append(resp.Failed, filename)
			continue
		}
		if err := s.files.Remove(filename); err != nil {
			s.log.Warn("stored file removal failed", zap.String("filename", filename), zap.Error(err))
		}
		resp.Deleted = append(resp.Deleted, filename)
	}
	resp.Message = fmt.Sprintf("deleted %d of %d files", len(resp.Deleted), len(req.Filenames))

	status := http.StatusOK
	if len(resp.Deleted) == 0 {
		status = http.StatusInternalServerError
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pipeline.Reindex(r.Context(), s.files.Dir())
	if err != nil {
		s.log.Error("reindex failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("reindex failed: %v", err))
		return
	}
	s.respondJSON(w, http.StatusOK, models.ReindexResponse{
		Files:  stats.Files,
		Chunks: stats.Chunks,
		Errors: len(stats.Errors),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docs, err := s.registry.CountDocuments(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to count documents")
		return
	}
	chunks, err := s.store.Count(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to count chunks")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"chunks":    chunks,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
