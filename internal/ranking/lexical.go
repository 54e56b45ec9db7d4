package ranking

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/kotae/internal/models"
)

// minMatchKeywordLen is the minimum rune length for a keyword to participate
// in lexical matching; shorter keywords produce too many noise hits.
const minMatchKeywordLen = 3

// fallbackKeywordCount is how many of the longest keywords are used when no
// keyword reaches minMatchKeywordLen.
const fallbackKeywordCount = 3

// qaMarkers are the question markers checked for the QA content bonus. The
// bonus fires only on the literal concatenation marker+keyword in the chunk
// text — a deliberately narrow condition kept for compatibility with the
// established scoring behavior; in practice it rarely fires.
var qaMarkers = []string{"question:", "q:"}

// LexicalMatcher scores every known chunk against the extracted keywords
// using filename and content substring matches.
type LexicalMatcher struct {
	weights   *Weights
	extractor *Extractor
}

// NewLexicalMatcher creates a lexical matcher.
func NewLexicalMatcher(weights *Weights) *LexicalMatcher {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &LexicalMatcher{weights: weights, extractor: NewExtractor(weights)}
}

// Match scans the full chunk corpus and returns one Candidate per chunk that
// has at least one filename or content hit, in corpus order.
func (m *LexicalMatcher) Match(corpus []models.Chunk, keywords []string) []*models.Candidate {
	kws := matchableKeywords(keywords)
	if len(kws) == 0 {
		return nil
	}

	var candidates []*models.Candidate
	for i := range corpus {
		if c := m.scoreChunk(&corpus[i], kws); c != nil {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// scoreChunk scores a single chunk; returns nil when no keyword hits it.
func (m *LexicalMatcher) scoreChunk(chunk *models.Chunk, keywords []string) *models.Candidate {
	filenameLower := strings.ToLower(chunk.Filename)
	textLower := strings.ToLower(chunk.Text)

	var filenameSum, contentSum float64
	hit := false
	for _, kw := range keywords {
		kwLower := strings.ToLower(kw)
		p := m.extractor.Priority(kw)
		if strings.Contains(filenameLower, kwLower) {
			filenameSum += p * m.weights.FilenameKeywordWeight
			hit = true
		}
		if strings.Contains(textLower, kwLower) {
			w := m.weights.ContentKeywordWeight
			if markerHit(textLower, kwLower) {
				w *= m.weights.QAMarkerMultiplier
			}
			contentSum += p * w
			hit = true
		}
	}
	if !hit {
		return nil
	}

	filenameScore := min(m.weights.FilenameScoreCap, filenameSum)
	contentScore := min(m.weights.ContentScoreCap, contentSum)
	total := min(m.weights.LexicalTotalCap, m.weights.LexicalBaseScore+filenameScore+contentScore)
	return &models.Candidate{
		ChunkID:       chunk.ID,
		DocumentID:    chunk.DocumentID,
		Filename:      chunk.Filename,
		ContentType:   chunk.ContentType,
		Text:          chunk.Text,
		FilenameScore: filenameScore,
		ContentScore:  contentScore,
		Total:         total,
		Source:        models.SourceLexical,
	}
}

// markerHit reports whether any QA marker immediately followed by the keyword
// occurs in the (lowercased) chunk text.
func markerHit(textLower, kwLower string) bool {
	for _, marker := range qaMarkers {
		if strings.Contains(textLower, marker+kwLower) {
			return true
		}
	}
	return false
}

// matchableKeywords returns the keywords of rune length >= minMatchKeywordLen,
// or, when none qualify, the three longest keywords overall.
func matchableKeywords(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if utf8.RuneCountInString(k) >= minMatchKeywordLen {
			out = append(out, k)
		}
	}
	if len(out) > 0 {
		return out
	}
	if len(keywords) == 0 {
		return nil
	}
	fallback := make([]string, len(keywords))
	copy(fallback, keywords)
	sort.SliceStable(fallback, func(i, j int) bool {
		return utf8.RuneCountInString(fallback[i]) > utf8.RuneCountInString(fallback[j])
	})
	if len(fallback) > fallbackKeywordCount {
		fallback = fallback[:fallbackKeywordCount]
	}
	return fallback
}
