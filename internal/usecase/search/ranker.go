package search

import (
	"sort"
	"strings"

	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// Ranker post-processing: pure functions over result lists, no state.

// Boost increments, each gated on a case-insensitive substring match of the
// record field against the raw query, or on record priority.
const (
	boostProblem  = 0.10
	boostCategory = 0.05
	boostType     = 0.05
	boostCritical = 0.05
	boostHigh     = 0.03
)

// ApplyBoost adds query-term and priority increments to each result's
// confidence, clamped to 1.0. Relevance tracks the boosted confidence.
func ApplyBoost(results []domsearch.Result, query string) []domsearch.Result {
	q := strings.ToLower(query)

	for i := range results {
		rec := results[i].Record
		conf := results[i].Confidence

		if rec.Problem != "" && strings.Contains(q, strings.ToLower(rec.Problem)) {
			conf += boostProblem
		}
		if rec.Category != "" && strings.Contains(q, strings.ToLower(rec.Category)) {
			conf += boostCategory
		}
		if rec.Type != "" && strings.Contains(q, strings.ToLower(rec.Type)) {
			conf += boostType
		}
		switch rec.Priority {
		case "Critical":
			conf += boostCritical
		case "High":
			conf += boostHigh
		}

		conf = domsearch.Clamp01(conf)
		results[i].Confidence = conf
		results[i].Relevance = conf
	}
	return results
}

// Deduplicate keeps one result per record identifier: the first seen, replaced
// only by a later result with strictly greater confidence.
func Deduplicate(results []domsearch.Result) []domsearch.Result {
	best := make(map[string]int, len(results))
	out := make([]domsearch.Result, 0, len(results))

	for _, r := range results {
		if idx, ok := best[r.Record.ID]; ok {
			if r.Confidence > out[idx].Confidence {
				out[idx] = r
			}
			continue
		}
		best[r.Record.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// RankByConfidence sorts descending by confidence; equal scores keep their
// existing order.
func RankByConfidence(results []domsearch.Result) []domsearch.Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}
