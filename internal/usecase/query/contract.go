package query

import (
	"context"

	"github.com/clearway-labs/signpost/internal/domain/entities"
	"github.com/clearway-labs/signpost/internal/domain/intervention"
	"github.com/clearway-labs/signpost/internal/domain/response"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// Strategy is one retrieval method, keyed by its name.
type Strategy interface {
	Name() domsearch.Strategy
	Search(ctx context.Context, query string, f domsearch.Filters, maxResults int) []domsearch.Result
}

// Extractor extracts structured entities from free text. Implementations
// degrade to an empty set rather than failing.
type Extractor interface {
	Extract(ctx context.Context, query string) entities.Entities
}

// Synthesizer produces the free-text recommendation and reports cumulative
// token usage.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, records []intervention.Record) (string, error)
	TokenUsage() response.TokenUsage
}

// ResponseCache memoizes responses by request fingerprint.
type ResponseCache interface {
	Get(key string) (*response.Response, bool)
	Set(key string, resp *response.Response)
}
