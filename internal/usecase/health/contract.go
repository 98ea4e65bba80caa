package health

import "context"

// CatalogReader reports how many catalog records are loaded.
type CatalogReader interface {
	Len() int
}

// IndexPinger checks vector index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks language-model provider availability.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
