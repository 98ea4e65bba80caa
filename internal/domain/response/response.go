// Package response defines the final search response returned to callers.
package response

import "github.com/clearway-labs/signpost/internal/domain/entities"

// Response is the final output of one query. Constructed once, cached by
// fingerprint and immutable once returned.
type Response struct {
	Query     string           `json:"query"`
	Results   []Recommendation `json:"results"`
	Synthesis string           `json:"synthesis,omitempty"`
	Metadata  Metadata         `json:"metadata"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	SearchStrategy string            `json:"search_strategy"`
	TotalResults   int               `json:"total_results"`
	QueryTimeMS    int64             `json:"query_time_ms"`
	Tokens         TokenUsage        `json:"llm_tokens"`
	Entities       entities.Entities `json:"entities_extracted"`
}

// TokenUsage is the cumulative language-model token usage of the service.
type TokenUsage struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// Recommendation is a search result expanded with presentation-ready fields.
// It has no identity beyond the source record's ID.
type Recommendation struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Confidence       float64        `json:"confidence"`
	Problem          string         `json:"problem"`
	Category         string         `json:"category"`
	Type             string         `json:"type"`
	Specifications   Specifications `json:"specifications"`
	Explanation      string         `json:"explanation"`
	Reference        StandardRef    `json:"irc_reference"`
	CostEstimate     string         `json:"cost_estimate"`
	InstallationTime string         `json:"installation_time,omitempty"`
	Maintenance      string         `json:"maintenance,omitempty"`
	RawData          string         `json:"raw_data,omitempty"`
}

// Specifications holds the dimensional details extracted from a record.
type Specifications struct {
	Dimensions string   `json:"dimensions,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Placement  string   `json:"placement,omitempty"`
}

// StandardRef points into the IRC standard backing a recommendation.
type StandardRef struct {
	Code    string `json:"code"`
	Clause  string `json:"clause"`
	Excerpt string `json:"excerpt,omitempty"`
}
