// Package extract turns free-text queries into structured entities via the
// language-model collaborator.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/entities"
)

// Model is the language-model contract for entity extraction.
type Model interface {
	ExtractEntities(ctx context.Context, query string) (entities.Entities, error)
}

// Extractor extracts entities and degrades to an empty set on any failure.
type Extractor struct {
	model  Model
	logger *zap.Logger
}

// New creates an extractor.
func New(model Model, logger *zap.Logger) *Extractor {
	return &Extractor{model: model, logger: logger}
}

// Extract returns the entities found in the query. A provider failure or a
// malformed response is a recoverable degradation: the result is simply empty
// and the caller proceeds without extracted filters.
func (e *Extractor) Extract(ctx context.Context, query string) entities.Entities {
	ent, err := e.model.ExtractEntities(ctx, query)
	if err != nil {
		e.logger.Warn("Entity extraction degraded", zap.Error(err))
		return entities.Entities{}
	}
	return ent
}
