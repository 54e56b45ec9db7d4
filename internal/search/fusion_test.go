package search

import (
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func cand(chunkID, docID string, total float64, source string) *models.Candidate {
	return &models.Candidate{
		ChunkID:    chunkID,
		DocumentID: docID,
		Total:      total,
		Source:     source,
	}
}

func TestFuseAndRankOrder(t *testing.T) {
	lex := []*models.Candidate{cand("a_chunk_0", "a", 32.5, models.SourceLexical)}
	vec := []*models.Candidate{
		cand("b_chunk_0", "b", 45, models.SourceVector),
		cand("c_chunk_0", "c", 12, models.SourceVector),
	}
	got := FuseAndRank(lex, vec, 10)
	if len(got) != 3 {
		t.Fatalf("fused %d candidates, want 3", len(got))
	}
	if got[0].ChunkID != "b_chunk_0" || got[1].ChunkID != "a_chunk_0" || got[2].ChunkID != "c_chunk_0" {
		t.Errorf("order = %q, %q, %q", got[0].ChunkID, got[1].ChunkID, got[2].ChunkID)
	}
}

func TestFuseAndRankDocumentDedup(t *testing.T) {
	// A lexical hit on a document evicts the vector hit on the same document,
	// even when the vector hit scores higher.
	lex := []*models.Candidate{cand("a_chunk_0", "a", 20, models.SourceLexical)}
	vec := []*models.Candidate{cand("a_chunk_3", "a", 50, models.SourceVector)}

	got := FuseAndRank(lex, vec, 10)
	if len(got) != 1 {
		t.Fatalf("fused %d candidates, want 1", len(got))
	}
	if got[0].ChunkID != "a_chunk_0" || got[0].Source != models.SourceLexical {
		t.Errorf("surviving candidate = %q (%s), want lexical a_chunk_0", got[0].ChunkID, got[0].Source)
	}
}

func TestFuseAndRankStableTies(t *testing.T) {
	lex := []*models.Candidate{cand("a_chunk_0", "a", 30, models.SourceLexical)}
	vec := []*models.Candidate{cand("b_chunk_0", "b", 30, models.SourceVector)}

	got := FuseAndRank(lex, vec, 10)
	if len(got) != 2 {
		t.Fatalf("fused %d candidates, want 2", len(got))
	}
	// Equal totals keep merge order: lexical first.
	if got[0].Source != models.SourceLexical {
		t.Errorf("tie broken against merge order: first is %s", got[0].Source)
	}
}

func TestFuseAndRankTruncates(t *testing.T) {
	vec := []*models.Candidate{
		cand("a_chunk_0", "a", 30, models.SourceVector),
		cand("b_chunk_0", "b", 20, models.SourceVector),
		cand("c_chunk_0", "c", 10, models.SourceVector),
	}
	got := FuseAndRank(nil, vec, 2)
	if len(got) != 2 {
		t.Fatalf("fused %d candidates, want 2", len(got))
	}
	if got[0].DocumentID != "a" || got[1].DocumentID != "b" {
		t.Errorf("kept %q, %q; want the two highest", got[0].DocumentID, got[1].DocumentID)
	}
}

func TestFuseAndRankEmpty(t *testing.T) {
	if got := FuseAndRank(nil, nil, 5); len(got) != 0 {
		t.Errorf("FuseAndRank(nil, nil) = %v, want empty", got)
	}
}

func TestTexts(t *testing.T) {
	cands := []*models.Candidate{
		{Text: "first"},
		{Text: "second"},
	}
	got := Texts(cands)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("Texts = %v", got)
	}
}
