package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// Hybrid runs the similarity and structured strategies concurrently and fuses
// their ranked lists via Reciprocal Rank Fusion.
type Hybrid struct {
	similarity Strategy
	structured Strategy
	logger     *zap.Logger
}

// NewHybrid creates the fusion strategy over its two sub-strategies.
func NewHybrid(similarity, structured Strategy, logger *zap.Logger) *Hybrid {
	return &Hybrid{similarity: similarity, structured: structured, logger: logger}
}

// Name implements Strategy.
func (h *Hybrid) Name() domsearch.Strategy { return domsearch.Hybrid }

// Search fans out to both sub-strategies, each requesting double headroom,
// then fuses. Sub-strategies degrade to empty lists on failure, so fusion
// proceeds with whichever lists came back.
func (h *Hybrid) Search(
	ctx context.Context, query string, f domsearch.Filters, maxResults int,
) []domsearch.Result {
	var simResults, structResults []domsearch.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		simResults = h.similarity.Search(gctx, query, f, 2*maxResults)
		return nil
	})
	g.Go(func() error {
		structResults = h.structured.Search(gctx, query, f, 2*maxResults)
		return nil
	})
	_ = g.Wait() // sub-strategies never return errors, the join is the point

	return fuseRRF(simResults, structResults, maxResults)
}

// fuseRRF merges two ranked lists via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) over the lists where d appears, rank
// 1-based within each list. The similarity instance is kept as the
// representative when a record appears in both lists. Confidence is the score
// normalized against the two-list maximum 2/(k+1), so a record found by only
// one strategy tops out at 0.5 even at rank 1.
func fuseRRF(sim, structured []domsearch.Result, topK int) []domsearch.Result {
	type scored struct {
		res   domsearch.Result
		score float64
		seen  int // first-seen order, stable tie-break
	}

	merged := make(map[string]*scored)
	order := 0

	accumulate := func(results []domsearch.Result) {
		for rank, r := range results {
			contrib := 1.0 / float64(rrfK+rank+1)
			if existing, ok := merged[r.Record.ID]; ok {
				existing.score += contrib
				continue
			}
			merged[r.Record.ID] = &scored{res: r, score: contrib, seen: order}
			order++
		}
	}
	accumulate(sim)
	accumulate(structured)

	maxScore := 2.0 / float64(rrfK+1)

	fused := make([]*scored, 0, len(merged))
	for _, s := range merged {
		conf := domsearch.Clamp01(s.score / maxScore)
		s.res.Confidence = conf
		s.res.Relevance = conf
		s.res.MatchReason = fmt.Sprintf("Hybrid fusion (RRF score: %.4f)", s.score)
		fused = append(fused, s)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].seen < fused[j].seen
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}

	results := make([]domsearch.Result, len(fused))
	for i, s := range fused {
		results[i] = s.res
	}
	return results
}
