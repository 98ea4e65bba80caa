// Package intervention defines the road-safety intervention catalog record.
package intervention

import "strings"

// Record is an immutable catalog entry describing one intervention from the
// IRC standards database. Records are created during ingestion and read-only
// at query time; the structured catalog and the vector index each hold their
// own copy.
type Record struct {
	ID       string `json:"id"`
	SerialNo int    `json:"s_no"`
	Problem  string `json:"problem"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	Code     string `json:"code"`
	Clause   string `json:"clause"`

	// Enriched fields extracted during ingestion.
	SpeedMin           *int     `json:"speed_min,omitempty"`
	SpeedMax           *int     `json:"speed_max,omitempty"`
	Dimensions         []string `json:"dimensions,omitempty"`
	Colors             []string `json:"colors,omitempty"`
	PlacementDistances []string `json:"placement_distances,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	SearchText         string   `json:"search_text,omitempty"`
}

// SearchBlob returns the precomputed search text, falling back to a
// concatenation of the descriptive fields.
func (r Record) SearchBlob() string {
	if r.SearchText != "" {
		return r.SearchText
	}
	return strings.Join([]string{r.Problem, r.Category, r.Type, r.Data}, " ")
}

// MatchesSpeedRange reports whether the record's speed range overlaps
// [qMin, qMax]. Records without speed information always match: they are
// treated as unconstrained rather than excluded.
func (r Record) MatchesSpeedRange(qMin, qMax int) bool {
	if r.SpeedMin == nil {
		return true
	}
	if r.SpeedMax == nil {
		return false
	}
	return *r.SpeedMin <= qMax && *r.SpeedMax >= qMin
}
