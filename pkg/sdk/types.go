package sdk

// SearchRequest is the POST /api/v1/search payload.
type SearchRequest struct {
	Query      string   `json:"query"`
	Filters    *Filters `json:"filters,omitempty"`
	Strategy   string   `json:"strategy,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// Filters narrows a search to matching interventions.
type Filters struct {
	Categories []string `json:"category,omitempty"`
	Problems   []string `json:"problem,omitempty"`
	SpeedMin   *int     `json:"speed_min,omitempty"`
	SpeedMax   *int     `json:"speed_max,omitempty"`
	Code       string   `json:"irc_code,omitempty"`
}

// SearchResponse is the search result with synthesis and metadata.
type SearchResponse struct {
	Query     string           `json:"query"`
	Results   []Recommendation `json:"results"`
	Synthesis string           `json:"synthesis,omitempty"`
	Metadata  Metadata         `json:"metadata"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	SearchStrategy string     `json:"search_strategy"`
	TotalResults   int        `json:"total_results"`
	QueryTimeMS    int64      `json:"query_time_ms"`
	Tokens         TokenUsage `json:"llm_tokens"`
}

// TokenUsage is the service's cumulative language-model token usage.
type TokenUsage struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// Recommendation is one ranked intervention with presentation fields.
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
}

// Specifications holds the dimensional details of a recommendation.
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

// Intervention is one catalog record.
type Intervention struct {
	ID       string   `json:"id"`
	Problem  string   `json:"problem"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Data     string   `json:"data"`
	Code     string   `json:"code"`
	Clause   string   `json:"clause"`
	SpeedMin *int     `json:"speed_min,omitempty"`
	SpeedMax *int     `json:"speed_max,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return "signpost: " + e.Code + ": " + e.Message
}
