package search

import (
	"sort"

	"github.com/hyperjump/kotae/internal/models"
)

// FuseAndRank merges lexical and vector candidates into a single ranking.
// Only one chunk per document survives: candidates are considered in order
// with the lexical list first, so a lexical hit wins over a vector hit on the
// same document. The merged list is sorted by total score descending (stable,
// so equal scores keep their merge order) and truncated to topK.
func FuseAndRank(lexical, vector []*models.Candidate, topK int) []*models.Candidate {
	merged := make([]*models.Candidate, 0, len(lexical)+len(vector))
	seen := make(map[string]struct{}, len(lexical)+len(vector))
	for _, c := range lexical {
		if _, ok := seen[c.DocumentID]; ok {
			continue
		}
		seen[c.DocumentID] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range vector {
		if _, ok := seen[c.DocumentID]; ok {
			continue
		}
		seen[c.DocumentID] = struct{}{}
		merged = append(merged, c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Total > merged[j].Total
	})

	if topK > 0 && len(merged) > topK {
		merged = merged[:topK]
	}
	return merged
}

// Texts returns the candidate texts in ranking order, for prompt assembly.
func Texts(candidates []*models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Text
	}
	return out
}
