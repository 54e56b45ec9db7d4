package ranking

import (
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// VectorScorer computes the score breakdown for nearest-neighbor hits
// returned by the vector store.
type VectorScorer struct {
	weights *Weights
}

// NewVectorScorer creates a vector hit scorer.
func NewVectorScorer(weights *Weights) *VectorScorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &VectorScorer{weights: weights}
}

// Score builds a Candidate for the hit at position rank with embedding
// distance d. For qa_pair chunks the presented text is rewritten with an
// "Original question:" prefix so the generation stage can weigh
// question-similarity explicitly, and the QA bonus is applied.
func (s *VectorScorer) Score(chunk *models.Chunk, distance float64, rank int, keywords []string) *models.Candidate {
	w := s.weights

	vectorScore := w.VectorScoreBase - distance*w.VectorDistanceWeight
	if vectorScore < 0 {
		vectorScore = 0
	}

	textLower := strings.ToLower(chunk.Text)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(textLower, strings.ToLower(kw)) {
			matched++
		}
	}
	keywordScore := min(w.VectorKeywordCap, w.VectorKeywordWeight*float64(matched))

	rankScore := w.RankScoreBase - float64(rank)
	if rankScore < 0 {
		rankScore = 0
	}

	text := chunk.Text
	var qaBonus float64
	if chunk.ContentType == models.ContentTypeQAPair {
		qaBonus = w.QAPairBonus
		text = "Original question: " + chunk.Question + "\n" + chunk.Text
	}

	return &models.Candidate{
		ChunkID:      chunk.ID,
		DocumentID:   chunk.DocumentID,
		Filename:     chunk.Filename,
		ContentType:  chunk.ContentType,
		Text:         text,
		VectorScore:  vectorScore,
		KeywordScore: keywordScore,
		RankScore:    rankScore,
		QABonus:      qaBonus,
		Total:        vectorScore + keywordScore + rankScore + qaBonus,
		Source:       models.SourceVector,
	}
}
