package ranking

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/kotae/internal/models"
)

// Rune-length thresholds for keyword extraction. Lengths are counted in runes
// so CJK corpora behave the same as ASCII.
const (
	minTokenLen = 2
	splitLen    = 4
	minHalfLen  = 2
)

// stopWords are function words excluded from extracted keywords.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"be": true, "to": true, "of": true, "in": true, "on": true, "at": true,
	"for": true, "and": true, "or": true, "do": true, "does": true, "did": true,
	"can": true, "i": true, "you": true, "it": true, "my": true, "me": true,
	"we": true, "with": true, "from": true, "this": true, "that": true,
}

// genericTerms are keywords too generic to discriminate between documents;
// their priority is forced to GenericKeywordPriority regardless of length.
var genericTerms = map[string]bool{
	"how": true, "what": true, "when": true, "where": true, "about": true,
	"info": true, "method": true, "way": true, "use": true, "guide": true,
	"procedure": true,
}

// keywordSeparators are the separator punctuation tokens split on, in addition
// to whitespace.
const keywordSeparators = ",.;:!?()[]\"'、。・／「」！？"

// Extractor derives an ordered keyword set from a raw query string.
type Extractor struct {
	weights *Weights
}

// NewExtractor creates a keyword extractor using the given weights for priorities.
func NewExtractor(weights *Weights) *Extractor {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Extractor{weights: weights}
}

// Normalize strips trailing sentence-terminal and interrogative punctuation
// and surrounding whitespace from a raw query.
func (e *Extractor) Normalize(query string) string {
	s := strings.TrimSpace(query)
	for {
		trimmed := strings.TrimRight(s, ".。!?！？．")
		trimmed = strings.TrimRight(trimmed, " \t")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

// Extract builds the QueryContext for a raw query: the whole normalized string
// is kept as the first (highest-context) keyword, followed by tokens and, for
// longer tokens, their midpoint halves. Insertion order is preserved and
// duplicates are suppressed by exact string equality.
func (e *Extractor) Extract(query string) *models.QueryContext {
	qc := &models.QueryContext{
		Raw:        query,
		Normalized: e.Normalize(query),
	}
	if qc.Normalized == "" {
		return qc
	}

	seen := make(map[string]bool)
	add := func(k string) {
		if k == "" || seen[k] || stopWords[k] {
			return
		}
		seen[k] = true
		qc.Keywords = append(qc.Keywords, k)
	}

	// The full query carries the most context and always ranks first.
	seen[qc.Normalized] = true
	qc.Keywords = append(qc.Keywords, qc.Normalized)

	tokens := strings.FieldsFunc(qc.Normalized, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || strings.ContainsRune(keywordSeparators, r)
	})
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		n := utf8.RuneCountInString(tok)
		if n >= minTokenLen {
			add(tok)
		}
		if n >= splitLen {
			r := []rune(tok)
			mid := n / 2
			for _, half := range []string{string(r[:mid]), string(r[mid:])} {
				if utf8.RuneCountInString(half) >= minHalfLen {
					add(half)
				}
			}
		}
	}
	return qc
}

// Priority returns the ranking weight of a keyword. Generic terms are forced
// to the generic priority regardless of length; otherwise short keywords rank
// low and long keywords high.
func (e *Extractor) Priority(keyword string) float64 {
	if genericTerms[strings.ToLower(keyword)] {
		return e.weights.GenericKeywordPriority
	}
	switch n := utf8.RuneCountInString(keyword); {
	case n <= minTokenLen:
		return e.weights.ShortKeywordPriority
	case n >= splitLen:
		return e.weights.LongKeywordPriority
	default:
		return e.weights.DefaultKeywordPriority
	}
}
