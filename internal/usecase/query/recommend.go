package query

import (
	"strings"

	"github.com/clearway-labs/signpost/internal/domain/response"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// excerptLimit bounds the standard-reference excerpt taken from record data.
const excerptLimit = 200

// buildRecommendations expands ranked results into presentation-ready
// recommendations.
func buildRecommendations(results []domsearch.Result) []response.Recommendation {
	recs := make([]response.Recommendation, 0, len(results))

	for _, res := range results {
		rec := res.Record

		explanation := res.MatchReason
		if explanation == "" {
			explanation = "Matched based on query relevance"
		}

		recs = append(recs, response.Recommendation{
			ID:         rec.ID,
			Title:      rec.Problem + " - " + rec.Type,
			Confidence: res.Confidence,
			Problem:    rec.Problem,
			Category:   rec.Category,
			Type:       rec.Type,
			Specifications: response.Specifications{
				Dimensions: strings.Join(rec.Dimensions, ", "),
				Colors:     rec.Colors,
				Placement:  strings.Join(rec.PlacementDistances, ", "),
			},
			Explanation: explanation,
			Reference: response.StandardRef{
				Code:    rec.Code,
				Clause:  rec.Clause,
				Excerpt: excerpt(rec.Data),
			},
			CostEstimate:     estimateCost(rec.Problem, rec.Category),
			InstallationTime: estimateInstallationTime(rec.Category),
			Maintenance:      extractMaintenance(rec.Data),
			RawData:          rec.Data,
		})
	}

	return recs
}

func excerpt(data string) string {
	if len(data) <= excerptLimit {
		return data
	}
	return data[:excerptLimit] + "..."
}

type costKey struct {
	problem  string
	category string
}

var costMatrix = map[costKey]string{
	{"Damaged", "Road Sign"}:                "Medium (₹2,000 - ₹5,000)",
	{"Faded", "Road Sign"}:                  "Medium (₹2,500 - ₹4,000)",
	{"Missing", "Road Sign"}:                "Medium (₹3,000 - ₹6,000)",
	{"Damaged", "Road Marking"}:             "Low (₹500 - ₹2,000)",
	{"Faded", "Road Marking"}:               "Low (₹800 - ₹2,500)",
	{"Missing", "Road Marking"}:             "Medium (₹2,000 - ₹4,000)",
	{"Damaged", "Traffic Calming Measures"}: "High (₹10,000 - ₹25,000)",
	{"Missing", "Traffic Calming Measures"}: "High (₹15,000 - ₹30,000)",
}

var costDefaults = map[string]string{
	"Road Sign":                "Medium (₹2,000 - ₹5,000)",
	"Road Marking":             "Low (₹1,000 - ₹3,000)",
	"Traffic Calming Measures": "High (₹12,000 - ₹28,000)",
}

// estimateCost returns an indicative implementation cost band.
func estimateCost(problem, category string) string {
	if cost, ok := costMatrix[costKey{problem, category}]; ok {
		return cost
	}
	if cost, ok := costDefaults[category]; ok {
		return cost
	}
	return "Medium"
}

var installationTimes = map[string]string{
	"Road Sign":                "2-4 hours",
	"Road Marking":             "4-8 hours",
	"Traffic Calming Measures": "1-3 days",
}

// estimateInstallationTime returns an indicative installation duration.
func estimateInstallationTime(category string) string {
	if t, ok := installationTimes[category]; ok {
		return t
	}
	return "Variable"
}

var maintenanceKeywords = []string{
	"replace", "maintain", "inspect", "warranty", "reflectivity", "year", "month",
}

// extractMaintenance pulls the first maintenance-related sentence out of the
// record data, falling back to a generic schedule.
func extractMaintenance(data string) string {
	for _, sentence := range strings.Split(data, ".") {
		lower := strings.ToLower(sentence)
		for _, kw := range maintenanceKeywords {
			if strings.Contains(lower, kw) {
				return strings.TrimSpace(sentence)
			}
		}
	}
	return "Inspect annually and replace when deteriorated"
}
