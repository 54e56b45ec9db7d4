// Package ranking provides query keyword extraction and candidate scoring for
// the hybrid retrieval engine.
package ranking

// Weights holds every scoring constant used by the matchers, so the ranking
// arithmetic is reproducible and tunable from configuration.
type Weights struct {
	// Lexical matcher
	FilenameKeywordWeight float64 `yaml:"filename_keyword_weight"` // default: 15
	ContentKeywordWeight  float64 `yaml:"content_keyword_weight"`  // default: 5
	FilenameScoreCap      float64 `yaml:"filename_score_cap"`      // default: 50
	ContentScoreCap       float64 `yaml:"content_score_cap"`       // default: 20
	LexicalBaseScore      float64 `yaml:"lexical_base_score"`      // default: 10
	LexicalTotalCap       float64 `yaml:"lexical_total_cap"`       // default: 80
	QAMarkerMultiplier    float64 `yaml:"qa_marker_multiplier"`    // default: 1.5

	// Vector matcher
	VectorScoreBase      float64 `yaml:"vector_score_base"`      // default: 30
	VectorDistanceWeight float64 `yaml:"vector_distance_weight"` // default: 20
	VectorKeywordWeight  float64 `yaml:"vector_keyword_weight"`  // default: 4
	VectorKeywordCap     float64 `yaml:"vector_keyword_cap"`     // default: 20
	RankScoreBase        float64 `yaml:"rank_score_base"`        // default: 10
	QAPairBonus          float64 `yaml:"qa_pair_bonus"`          // default: 5

	// Keyword priorities
	ShortKeywordPriority   float64 `yaml:"short_keyword_priority"`   // default: 0.5
	GenericKeywordPriority float64 `yaml:"generic_keyword_priority"` // default: 0.7
	LongKeywordPriority    float64 `yaml:"long_keyword_priority"`    // default: 1.5
	DefaultKeywordPriority float64 `yaml:"default_keyword_priority"` // default: 1.0
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() *Weights {
	return &Weights{
		FilenameKeywordWeight: 15,
		ContentKeywordWeight:  5,
		FilenameScoreCap:      50,
		ContentScoreCap:       20,
		LexicalBaseScore:      10,
		LexicalTotalCap:       80,
		QAMarkerMultiplier:    1.5,

		VectorScoreBase:      30,
		VectorDistanceWeight: 20,
		VectorKeywordWeight:  4,
		VectorKeywordCap:     20,
		RankScoreBase:        10,
		QAPairBonus:          5,

		ShortKeywordPriority:   0.5,
		GenericKeywordPriority: 0.7,
		LongKeywordPriority:    1.5,
		DefaultKeywordPriority: 1.0,
	}
}

// ApplyDefaults fills in zero values with defaults. Zero doubles as unset,
// so a weight cannot be configured to exactly 0; use a small value like
// 0.001 to effectively disable one.
func (w *Weights) ApplyDefaults() {
	d := DefaultWeights()
	if w.FilenameKeywordWeight == 0 {
		w.FilenameKeywordWeight = d.FilenameKeywordWeight
	}
	if w.ContentKeywordWeight == 0 {
		w.ContentKeywordWeight = d.ContentKeywordWeight
	}
	if w.FilenameScoreCap == 0 {
		w.FilenameScoreCap = d.FilenameScoreCap
	}
	if w.ContentScoreCap == 0 {
		w.ContentScoreCap = d.ContentScoreCap
	}
	if w.LexicalBaseScore == 0 {
		w.LexicalBaseScore = d.LexicalBaseScore
	}
	if w.LexicalTotalCap == 0 {
		w.LexicalTotalCap = d.LexicalTotalCap
	}
	if w.QAMarkerMultiplier == 0 {
		w.QAMarkerMultiplier = d.QAMarkerMultiplier
	}
	if w.VectorScoreBase == 0 {
		w.VectorScoreBase = d.VectorScoreBase
	}
	if w.VectorDistanceWeight == 0 {
		w.VectorDistanceWeight = d.VectorDistanceWeight
	}
	if w.VectorKeywordWeight == 0 {
		w.VectorKeywordWeight = d.VectorKeywordWeight
	}
	if w.VectorKeywordCap == 0 {
		w.VectorKeywordCap = d.VectorKeywordCap
	}
	if w.RankScoreBase == 0 {
		w.RankScoreBase = d.RankScoreBase
	}
	if w.QAPairBonus == 0 {
		w.QAPairBonus = d.QAPairBonus
	}
	if w.ShortKeywordPriority == 0 {
		w.ShortKeywordPriority = d.ShortKeywordPriority
	}
	if w.GenericKeywordPriority == 0 {
		w.GenericKeywordPriority = d.GenericKeywordPriority
	}
	if w.LongKeywordPriority == 0 {
		w.LongKeywordPriority = d.LongKeywordPriority
	}
	if w.DefaultKeywordPriority == 0 {
		w.DefaultKeywordPriority = d.DefaultKeywordPriority
	}
}
