package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// Structured is the filter strategy: exact filter matching against the
// catalog snapshot when filters are present, substring text search otherwise.
type Structured struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewStructured creates the structured-filter strategy.
func NewStructured(catalog Catalog, logger *zap.Logger) *Structured {
	return &Structured{catalog: catalog, logger: logger}
}

// Name implements Strategy.
func (s *Structured) Name() domsearch.Strategy { return domsearch.Structured }

// Search queries the catalog and scores each match with a deterministic
// additive heuristic. Store failures degrade to an empty list.
func (s *Structured) Search(
	ctx context.Context, query string, f domsearch.Filters, maxResults int,
) []domsearch.Result {
	var (
		records []intervention.Record
		err     error
	)
	if !f.IsEmpty() {
		records, err = s.catalog.Filter(ctx, f, maxResults)
	} else {
		records, err = s.catalog.TextSearch(ctx, query, maxResults)
	}
	if err != nil {
		s.logger.Warn("Structured search degraded", zap.Error(err))
		return nil
	}

	reason := matchReason(f)
	results := make([]domsearch.Result, 0, len(records))
	for _, rec := range records {
		conf := structuredConfidence(rec, query, f)
		results = append(results, domsearch.Result{
			Record:      rec,
			Confidence:  conf,
			Relevance:   conf,
			MatchReason: reason,
		})
	}
	return results
}

// structuredConfidence is the additive heuristic score: 0.5 base, increments
// for query substring matches and filter-list membership, capped at 1.0.
func structuredConfidence(rec intervention.Record, query string, f domsearch.Filters) float64 {
	q := strings.ToLower(query)
	conf := 0.5

	if rec.Problem != "" && strings.Contains(q, strings.ToLower(rec.Problem)) {
		conf += 0.2
	}
	if rec.Category != "" && strings.Contains(q, strings.ToLower(rec.Category)) {
		conf += 0.15
	}
	if rec.Type != "" && strings.Contains(q, strings.ToLower(rec.Type)) {
		conf += 0.15
	}
	if contains(f.Categories, rec.Category) {
		conf += 0.1
	}
	if contains(f.Problems, rec.Problem) {
		conf += 0.1
	}

	return domsearch.Clamp01(conf)
}

// matchReason names the active filter dimensions, or the text-search fallback
// when no filters were set.
func matchReason(f domsearch.Filters) string {
	var reasons []string
	if len(f.Categories) > 0 {
		reasons = append(reasons, "Category filter match")
	}
	if len(f.Problems) > 0 {
		reasons = append(reasons, "Problem type filter match")
	}
	if f.SpeedMin != nil || f.SpeedMax != nil {
		reasons = append(reasons, "Speed range match")
	}
	if len(reasons) == 0 {
		return "Text search match"
	}
	return strings.Join(reasons, ", ")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
