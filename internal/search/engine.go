package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/ranking"
	"github.com/hyperjump/kotae/internal/vector"
)

// vectorFetchFactor over-fetches vector hits so document-level dedup against
// the lexical candidates still leaves enough results to fill topK.
const vectorFetchFactor = 3

// MatcherResult carries one matcher's candidates or its failure. An empty
// candidate list with a nil Err means the matcher ran and found nothing,
// which is different from the matcher being unavailable.
type MatcherResult struct {
	Candidates []*models.Candidate
	Err        error
}

// Result is the outcome of a hybrid search. Degraded is set when one of the
// matchers failed and the ranking was produced from the other alone.
type Result struct {
	Query      string
	Keywords   []string
	Candidates []*models.Candidate
	Degraded   bool
	QueryTime  time.Duration
}

// Engine runs hybrid retrieval: lexical substring matching over the whole
// corpus fused with vector nearest-neighbor search.
type Engine struct {
	store     vector.Store
	embedder  embedding.Embedder
	extractor *ranking.Extractor
	lexical   *ranking.LexicalMatcher
	scorer    *ranking.VectorScorer
	log       *zap.Logger
}

// NewEngine wires the matchers over the given store and embedder.
func NewEngine(store vector.Store, embedder embedding.Embedder, weights *ranking.Weights, log *zap.Logger) *Engine {
	return &Engine{
		store:     store,
		embedder:  embedder,
		extractor: ranking.NewExtractor(weights),
		lexical:   ranking.NewLexicalMatcher(weights),
		scorer:    ranking.NewVectorScorer(weights),
		log:       log,
	}
}

// Search runs both matchers and fuses their candidates. It never returns an
// error: a failed matcher degrades the result instead of failing the query.
func (e *Engine) Search(ctx context.Context, query string, topK int) Result {
	start := time.Now()
	res := Result{Query: query}

	qc := e.extractor.Extract(query)
	if len(qc.Keywords) == 0 {
		res.QueryTime = time.Since(start)
		return res
	}
	res.Keywords = qc.Keywords

	lex := e.matchLexical(ctx, qc.Keywords)
	if lex.Err != nil {
		e.log.Warn("lexical matcher unavailable", zap.Error(lex.Err))
		res.Degraded = true
	}

	vec := e.matchVector(ctx, qc.Normalized, qc.Keywords, topK, lex.Candidates)
	if vec.Err != nil {
		e.log.Warn("vector matcher unavailable", zap.Error(vec.Err))
		res.Degraded = true
	}

	res.Candidates = FuseAndRank(lex.Candidates, vec.Candidates, topK)
	res.QueryTime = time.Since(start)

	e.log.Debug("search complete",
		zap.String("query", query),
		zap.Int("lexical", len(lex.Candidates)),
		zap.Int("vector", len(vec.Candidates)),
		zap.Int("fused", len(res.Candidates)),
		zap.Bool("degraded", res.Degraded),
		zap.Duration("took", res.QueryTime))
	return res
}

func (e *Engine) matchLexical(ctx context.Context, keywords []string) MatcherResult {
	corpus, err := e.store.GetAll(ctx)
	if err != nil {
		return MatcherResult{Err: err}
	}
	return MatcherResult{Candidates: e.lexical.Match(corpus, keywords)}
}

// matchVector embeds the query, over-fetches neighbors, and scores hits whose
// documents the lexical matcher has not already claimed.
func (e *Engine) matchVector(ctx context.Context, query string, keywords []string, topK int, lexical []*models.Candidate) MatcherResult {
	emb, err := e.embedder.Embed(ctx, query, embedding.TaskQuery)
	if err != nil {
		return MatcherResult{Err: err}
	}
	hits, err := e.store.Query(ctx, emb, topK*vectorFetchFactor)
	if err != nil {
		return MatcherResult{Err: err}
	}

	claimed := make(map[string]struct{}, len(lexical))
	for _, c := range lexical {
		claimed[c.DocumentID] = struct{}{}
	}

	var out []*models.Candidate
	for rank, hit := range hits {
		if _, ok := claimed[hit.Chunk.DocumentID]; ok {
			continue
		}
		chunk := hit.Chunk
		out = append(out, e.scorer.Score(&chunk, hit.Distance, rank, keywords))
	}
	return MatcherResult{Candidates: out}
}
