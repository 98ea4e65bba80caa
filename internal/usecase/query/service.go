// Package query is the orchestrator: it drives one search query through
// cache check, entity extraction, filter merging, strategy dispatch, ranking,
// recommendation assembly and synthesis.
package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
	"github.com/clearway-labs/signpost/internal/domain/response"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
	"github.com/clearway-labs/signpost/internal/usecase/search"
)

// Fixed synthesis fallbacks.
const (
	noResultsSynthesis = "No interventions found matching your query. Please try rephrasing or broadening your search."
	synthesisErrorText = "Error generating detailed recommendation. Please try again."
)

// synthesisContextSize is how many top-ranked records back the synthesis call.
const synthesisContextSize = 3

// Service orchestrates query processing.
type Service struct {
	strategies map[domsearch.Strategy]Strategy
	fallback   Strategy
	extractor  Extractor
	synth      Synthesizer
	cache      ResponseCache
	logger     *zap.Logger
}

// New creates the orchestrator. The fallback strategy serves auto and
// unrecognized strategy names.
func New(
	strategies []Strategy, fallback Strategy,
	extractor Extractor, synth Synthesizer, cache ResponseCache,
	logger *zap.Logger,
) *Service {
	byName := make(map[domsearch.Strategy]Strategy, len(strategies))
	for _, s := range strategies {
		byName[s.Name()] = s
	}
	return &Service{
		strategies: byName,
		fallback:   fallback,
		extractor:  extractor,
		synth:      synth,
		cache:      cache,
		logger:     logger,
	}
}

// Process runs one validated request through the full pipeline. A cache hit
// returns the memoized response unchanged; otherwise the response is built,
// cached and returned. Collaborator degradations (extraction, sub-searches,
// synthesis) never abort the query.
func (s *Service) Process(ctx context.Context, req domsearch.Request) (*response.Response, error) {
	start := time.Now()

	fingerprint := req.Fingerprint()
	if cached, ok := s.cache.Get(fingerprint); ok {
		s.logger.Info("Returning cached response", zap.String("fingerprint", fingerprint))
		return cached, nil
	}

	ent := s.extractor.Extract(ctx, req.Query())
	filters := req.Filters().Merge(ent)

	strategy := s.selectStrategy(req.Strategy())
	s.logger.Info("Dispatching search",
		zap.String("strategy", string(strategy.Name())),
		zap.Int("max_results", req.MaxResults()))

	// Double headroom for deduplication and truncation.
	results := strategy.Search(ctx, req.Query(), filters, 2*req.MaxResults())

	results = search.ApplyBoost(results, req.Query())
	results = search.Deduplicate(results)
	results = search.RankByConfidence(results)
	if len(results) > req.MaxResults() {
		results = results[:req.MaxResults()]
	}

	recommendations := buildRecommendations(results)
	synthesis := s.synthesize(ctx, req.Query(), results)

	resp := &response.Response{
		Query:     req.Query(),
		Results:   recommendations,
		Synthesis: synthesis,
		Metadata: response.Metadata{
			SearchStrategy: string(strategy.Name()),
			TotalResults:   len(results),
			QueryTimeMS:    time.Since(start).Milliseconds(),
			Tokens:         s.synth.TokenUsage(),
			Entities:       ent,
		},
	}

	s.cache.Set(fingerprint, resp)

	s.logger.Info("Query processed",
		zap.Int("results", len(results)),
		zap.Int64("query_time_ms", resp.Metadata.QueryTimeMS))
	return resp, nil
}

func (s *Service) selectStrategy(name domsearch.Strategy) Strategy {
	if strategy, ok := s.strategies[name.Resolve()]; ok {
		return strategy
	}
	return s.fallback
}

// synthesize produces the free-text recommendation. Zero results short-circuit
// to a fixed message without a model call; a model failure degrades to a fixed
// error message rather than aborting the query.
func (s *Service) synthesize(ctx context.Context, query string, results []domsearch.Result) string {
	if len(results) == 0 {
		return noResultsSynthesis
	}

	top := results
	if len(top) > synthesisContextSize {
		top = top[:synthesisContextSize]
	}
	records := make([]intervention.Record, len(top))
	for i, r := range top {
		records[i] = r.Record
	}

	text, err := s.synth.Synthesize(ctx, query, records)
	if err != nil {
		s.logger.Warn("Synthesis degraded", zap.Error(err))
		return synthesisErrorText
	}
	return text
}
