// Package vectorindex is the Redis Search adapter for vector similarity
// queries over the intervention catalog.
package vectorindex

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Config holds connection parameters for the vector index.
type Config struct {
	Addrs     []string
	Password  string
	IndexName string
	KeyPrefix string
}

// Index talks to a Redis 8+ instance with the Search module via rueidis.
type Index struct {
	client rueidis.Client
	name   string
	prefix string
	logger *zap.Logger
}

// New creates a vector index client.
func New(cfg Config, logger *zap.Logger) (*Index, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Index{client: client, name: cfg.IndexName, prefix: cfg.KeyPrefix, logger: logger}, nil
}

// Ping checks connectivity.
func (ix *Index) Ping(ctx context.Context) error {
	cmd := ix.client.B().Ping().Build()
	if err := ix.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (ix *Index) Close() {
	ix.client.Close()
}

// WaitForReady polls Ping until the index responds or timeout expires.
func (ix *Index) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for vector index: %w", ctx.Err())
		case <-ticker.C:
			if err := ix.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
