package vectorindex

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
)

// HNSW index construction parameters.
const (
	hnswM           = 32
	hnswEFConstruct = 400
)

// EnsureIndex creates the FT index over intervention hashes. If drop is set,
// an existing index is removed first (documents are kept).
func (ix *Index) EnsureIndex(ctx context.Context, dims int, drop bool) error {
	if dims <= 0 {
		return fmt.Errorf("dims must be positive")
	}

	if drop {
		dropCmd := ix.client.B().Arbitrary("FT.DROPINDEX").Args(ix.name).Build()
		if err := ix.client.Do(ctx, dropCmd).Error(); err != nil && !isUnknownIndex(err) {
			return fmt.Errorf("ft.dropindex: %w", err)
		}
	}

	args := []string{
		ix.name, "ON", "HASH", "PREFIX", "1", ix.prefix,
		"SCHEMA",
		"category", "TAG",
		"problem", "TAG",
		"type", "TEXT",
		"search_text", "TEXT",
		"vector", "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(dims),
		"DISTANCE_METRIC", "COSINE",
		"M", strconv.Itoa(hnswM),
		"EF_CONSTRUCTION", strconv.Itoa(hnswEFConstruct),
	}

	cmd := ix.client.B().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := ix.client.Do(ctx, cmd).Error(); err != nil {
		if isIndexExists(err) {
			ix.logger.Debug("Index already exists", zap.String("index", ix.name))
			return nil
		}
		return fmt.Errorf("ft.create: %w", err)
	}

	ix.logger.Info("Vector index created", zap.String("index", ix.name), zap.Int("dims", dims))
	return nil
}

// Add writes one record and its embedding into the index.
func (ix *Index) Add(ctx context.Context, rec intervention.Record, vector []float32) error {
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if len(vector) == 0 {
		return fmt.Errorf("vector is required")
	}

	args := []string{ix.prefix + rec.ID}
	args = append(args, fieldsFromRecord(rec)...)
	args = append(args, "vector", vectorToBytes(vector))

	cmd := ix.client.B().Arbitrary("HSET").Args(args...).Build()
	if err := ix.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("hset %s: %w", rec.ID, err)
	}
	return nil
}

func isIndexExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "index already exists")
}

func isUnknownIndex(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unknown index")
}
