// Package search defines the query-side search domain: strategies, filters,
// validated requests and scored results.
package search

// Strategy selects one of the retrieval algorithms.
type Strategy string

// Strategy constants.
const (
	// Auto lets the orchestrator pick (currently always Hybrid).
	Auto Strategy = "auto"
	// RAG is vector similarity search over embeddings.
	RAG Strategy = "rag"
	// Structured is exact filter / substring search over the catalog.
	Structured Strategy = "structured"
	// Hybrid fuses RAG and Structured via Reciprocal Rank Fusion.
	Hybrid Strategy = "hybrid"
)

// Resolve maps the requested strategy to a concrete one. Auto, empty and
// unrecognized names all fall back to Hybrid.
func (s Strategy) Resolve() Strategy {
	switch s {
	case RAG, Structured, Hybrid:
		return s
	default:
		return Hybrid
	}
}
