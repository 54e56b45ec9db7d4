package models

// QueryContext holds the parsed form of one search query: the raw string, the
// normalized string (trailing sentence-terminal punctuation stripped), and the
// extracted keywords in insertion order with duplicates suppressed.
type QueryContext struct {
	Raw        string   `json:"raw"`
	Normalized string   `json:"normalized"`
	Keywords   []string `json:"keywords"`
}

// Candidate is one scored chunk produced by a matcher during a single query's
// ranking pass. Score components that a matcher does not compute stay zero.
type Candidate struct {
	ChunkID     string `json:"chunk_id"`
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	// Text is the text presented onward; for qa_pair chunks surfaced by the
	// vector matcher it carries the "Original question:" prefix.
	Text string `json:"text"`

	FilenameScore float64 `json:"filename_score"`
	ContentScore  float64 `json:"content_score"`
	VectorScore   float64 `json:"vector_score"`
	KeywordScore  float64 `json:"keyword_score"`
	RankScore     float64 `json:"rank_score"`
	QABonus       float64 `json:"qa_bonus"`
	Total         float64 `json:"total"`

	// Source is "lexical" or "vector".
	Source string `json:"source"`
}

// Matcher source labels.
const (
	SourceLexical = "lexical"
	SourceVector  = "vector"
)
