package search

import (
	"context"

	"github.com/clearway-labs/signpost/internal/domain"
	"github.com/clearway-labs/signpost/internal/domain/intervention"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorIndex is the KNN contract over the vector store.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, k int, f domsearch.Filters) ([]domsearch.Hit, error)
}

// Catalog is the structured-store contract for filter and substring search.
type Catalog interface {
	Filter(ctx context.Context, f domsearch.Filters, limit int) ([]intervention.Record, error)
	TextSearch(ctx context.Context, query string, limit int) ([]intervention.Record, error)
}

// Strategy is one retrieval method. Implementations degrade rather than fail:
// collaborator errors are logged and surface as an empty result list.
type Strategy interface {
	Name() domsearch.Strategy
	Search(ctx context.Context, query string, f domsearch.Filters, maxResults int) []domsearch.Result
}
