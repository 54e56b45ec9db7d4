package models

import "time"

// AskRequest is the input for POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the output for POST /ask.
type AskResponse struct {
	Answer string `json:"answer"`
	// Sources are the ranked chunk texts the answer was generated from.
	Sources []string `json:"sources,omitempty"`
}

// SearchRequest is the input for POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchResponse is the output for POST /search: the ranked chunk texts plus
// the per-candidate score breakdowns behind them.
type SearchResponse struct {
	Query      string       `json:"query"`
	Texts      []string     `json:"texts"`
	Candidates []*Candidate `json:"candidates"`
	// Degraded is true when a matcher contributed zero candidates because of
	// a retrieval-layer error rather than a legitimate empty match.
	Degraded  bool  `json:"degraded,omitempty"`
	QueryTime int64 `json:"query_time_ms"`
}

// UploadResponse is the output for POST /upload.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

// FileInfo describes one uploaded file in a listing.
type FileInfo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ChunkCount int       `json:"chunk_count"`
	Modified   time.Time `json:"modified"`
}

// FileListResponse is the output for GET /files.
type FileListResponse struct {
	Files []FileInfo `json:"files"`
}

// DeleteFilesRequest is the input for DELETE /files.
type DeleteFilesRequest struct {
	Filenames []string `json:"filenames"`
}

// DeleteFilesResponse reports the outcome of a batch delete per file.
type DeleteFilesResponse struct {
	Message string   `json:"message"`
	Deleted []string `json:"deleted_files"`
	Failed  []string `json:"failed_files"`
}

// ReindexResponse is the output for POST /reindex.
type ReindexResponse struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
	Errors int `json:"errors"`
}
