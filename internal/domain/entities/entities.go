// Package entities holds the structured entities extracted from a free-text query.
package entities

// Entities is the result of language-model entity extraction over a query.
// Produced once per query and never mutated afterward; a zero value means
// extraction found nothing (or failed and degraded).
type Entities struct {
	Problems    []string `json:"problems,omitempty"`
	Category    string   `json:"category,omitempty"`
	Type        string   `json:"type,omitempty"`
	Speed       *int     `json:"speed,omitempty"`
	RoadType    string   `json:"road_type,omitempty"`
	Environment []string `json:"environment,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
}

// IsEmpty reports whether extraction produced no usable entities.
func (e Entities) IsEmpty() bool {
	return len(e.Problems) == 0 && e.Category == "" && e.Type == "" &&
		e.Speed == nil && e.RoadType == "" && len(e.Environment) == 0 && e.Urgency == ""
}
