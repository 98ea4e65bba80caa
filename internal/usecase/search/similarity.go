// Package search implements the retrieval strategies and the post-search
// ranking primitives. Three strategies exist: vector similarity over the
// embedding index, structured filtering over the catalog snapshot, and a
// hybrid that fuses both via Reciprocal Rank Fusion.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// Similarity is the vector-similarity strategy: embed the query, run a KNN
// search against the index, and map cosine distance to a [0,1] confidence.
type Similarity struct {
	embed  Embedder
	index  VectorIndex
	logger *zap.Logger
}

// NewSimilarity creates the vector-similarity strategy.
func NewSimilarity(embed Embedder, index VectorIndex, logger *zap.Logger) *Similarity {
	return &Similarity{embed: embed, index: index, logger: logger}
}

// Name implements Strategy.
func (s *Similarity) Name() domsearch.Strategy { return domsearch.RAG }

// Search returns the nearest catalog records in the index's nearest-first
// order. Embedding or index failures degrade to an empty list so fusion and
// the orchestrator can proceed on the remaining strategies.
func (s *Similarity) Search(
	ctx context.Context, query string, f domsearch.Filters, maxResults int,
) []domsearch.Result {
	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("Similarity search degraded: embedding failed", zap.Error(err))
		return nil
	}

	hits, err := s.index.Query(ctx, emb.Vector, maxResults, f)
	if err != nil {
		s.logger.Warn("Similarity search degraded: index query failed", zap.Error(err))
		return nil
	}

	results := make([]domsearch.Result, 0, len(hits))
	for _, hit := range hits {
		// Cosine distance is in [0,2]; identical vectors score 1.0.
		sim := domsearch.Clamp01(1 - hit.Distance/2)
		results = append(results, domsearch.Result{
			Record:      hit.Record,
			Confidence:  sim,
			Relevance:   sim,
			MatchReason: fmt.Sprintf("Vector similarity: %.2f", sim),
		})
	}
	return results
}
