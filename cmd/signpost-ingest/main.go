// Command signpost-ingest builds the vector index from the intervention
// catalog: it embeds every record's search text and writes the record plus
// vector into the Redis Search index the API server queries.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clearway-labs/signpost/internal/config"
	logpkg "github.com/clearway-labs/signpost/internal/logger"
	"github.com/clearway-labs/signpost/internal/repository/catalog"
	"github.com/clearway-labs/signpost/internal/repository/vectorindex"
	"github.com/clearway-labs/signpost/internal/transport/openai"
)

// defaultDimensions matches text-embedding-3-small output when the config
// does not pin a reduced dimensionality.
const defaultDimensions = 1536

func main() {
	drop := flag.Bool("drop", false, "drop and recreate the index before ingesting")
	concurrency := flag.Int("concurrency", 4, "concurrent embedding requests")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	index, err := vectorindex.New(vectorindex.Config{
		Addrs:     cfg.Vector.Addrs,
		Password:  cfg.Vector.Password,
		IndexName: cfg.Vector.IndexName,
		KeyPrefix: cfg.Vector.KeyPrefix,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create vector index client", zap.Error(err))
	}
	defer index.Close()

	ctx := context.Background()
	if err := index.WaitForReady(ctx, time.Duration(cfg.Vector.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector index not ready", zap.Error(err))
	}

	llm := openai.NewClient(&openai.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		ExtractModel:   cfg.LLM.ExtractModel,
		SynthesisModel: cfg.LLM.SynthesisModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Dimensions:     cfg.LLM.Dimensions,
		Logger:         logger,
	})

	dims := cfg.LLM.Dimensions
	if dims == 0 {
		dims = defaultDimensions
	}

	if err := index.EnsureIndex(ctx, dims, *drop); err != nil {
		logger.Fatal("Failed to ensure index", zap.Error(err))
	}

	records := store.All(0)
	logger.Info("Ingesting interventions",
		zap.Int("records", len(records)),
		zap.Int("dimensions", dims),
		zap.Int("concurrency", *concurrency))

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			emb, err := llm.Embed(gctx, rec.SearchBlob())
			if err != nil {
				return err
			}
			return index.Add(gctx, rec, emb.Vector)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}

	logger.Info("Ingestion complete",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("embedding_tokens", llm.TokenUsage().Input))
}
