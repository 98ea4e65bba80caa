package search

import "github.com/clearway-labs/signpost/internal/domain/intervention"

// Result wraps one catalog record with a match score. Confidence is always
// kept within [0,1]; Relevance may exceed it transiently while boosts are
// applied but is clamped before a result is emitted.
type Result struct {
	Record      intervention.Record
	Confidence  float64
	Relevance   float64
	MatchReason string
}

// Hit is a raw vector-index hit: a reconstructed record plus its cosine
// distance to the query embedding, in [0,2].
type Hit struct {
	Record   intervention.Record
	Distance float64
}

// Clamp01 bounds a score to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
