// Package openai is the language-model adapter over an OpenAI-compatible API.
// It supplies the three capabilities the pipeline needs: query embedding,
// entity extraction and recommendation synthesis.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain"
	"github.com/clearway-labs/signpost/internal/domain/entities"
	"github.com/clearway-labs/signpost/internal/domain/intervention"
	"github.com/clearway-labs/signpost/internal/domain/response"
	"github.com/clearway-labs/signpost/internal/metrics"
)

// Client is the language-model provider.
type Client struct {
	api            *openai.Client
	extractModel   string
	synthesisModel string
	embModel       openai.EmbeddingModel
	dimensions     int
	inputTokens    atomic.Int64
	outputTokens   atomic.Int64
	logger         *zap.Logger
}

// Config holds the provider settings.
type Config struct {
	APIKey         string
	BaseURL        string
	ExtractModel   string
	SynthesisModel string
	EmbeddingModel string
	Dimensions     int
	Logger         *zap.Logger
}

// NewClient creates an OpenAI-compatible language-model client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:            openai.NewClientWithConfig(clientCfg),
		extractModel:   cfg.ExtractModel,
		synthesisModel: cfg.SynthesisModel,
		embModel:       openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions:     cfg.Dimensions,
		logger:         cfg.Logger,
	}
}

// Embed implements domain.Embedder.
func (c *Client) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          c.embModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if c.dimensions > 0 {
		req.Dimensions = c.dimensions
	}

	start := time.Now()
	resp, err := c.api.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("embed", string(c.embModel), "error").Inc()
		return domain.EmbeddingResult{}, parseAPIError("embedding", err)
	}
	if len(resp.Data) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues("embed", string(c.embModel), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues("embed", string(c.embModel), "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues("embed", string(c.embModel)).Observe(duration.Seconds())

	c.trackUsage("embed", resp.Usage.PromptTokens, 0)

	return domain.EmbeddingResult{
		Vector:       resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// ExtractEntities asks the model for a strict-JSON entity object and parses it.
func (c *Client) ExtractEntities(ctx context.Context, query string) (entities.Entities, error) {
	text, err := c.complete(ctx, "extract", c.extractModel, extractionPrompt(query), 0)
	if err != nil {
		return entities.Entities{}, err
	}

	ent, err := parseEntities(text)
	if err != nil {
		c.logger.Warn("Failed to parse entity JSON", zap.String("raw", text), zap.Error(err))
		return entities.Entities{}, fmt.Errorf("parse entities: %w: %w", err, domain.ErrLLMProviderError)
	}
	return ent, nil
}

// Synthesize generates the free-text recommendation from the top-ranked records.
func (c *Client) Synthesize(ctx context.Context, query string, records []intervention.Record) (string, error) {
	return c.complete(ctx, "synthesize", c.synthesisModel, synthesisPrompt(query, records), 0.4)
}

// TokenUsage returns the cumulative token counters.
func (c *Client) TokenUsage() response.TokenUsage {
	return response.TokenUsage{
		Input:  c.inputTokens.Load(),
		Output: c.outputTokens.Load(),
	}
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Client) complete(
	ctx context.Context, operation, model, prompt string, temperature float32,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(operation, model, "error").Inc()
		return "", parseAPIError(operation, err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(operation, model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(operation, model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(operation, model).Observe(duration.Seconds())

	c.trackUsage(operation, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

// trackUsage accumulates the service-wide token counters. Safe under
// concurrent queries.
func (c *Client) trackUsage(operation string, prompt, completion int) {
	if prompt > 0 {
		c.inputTokens.Add(int64(prompt))
		metrics.LLMTokensTotal.WithLabelValues(operation, "input").Add(float64(prompt))
	}
	if completion > 0 {
		c.outputTokens.Add(int64(completion))
		metrics.LLMTokensTotal.WithLabelValues(operation, "output").Add(float64(completion))
	}
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrLLMProviderError for uniform handling.
func parseAPIError(operation string, err error) error {
	wrap := domain.ErrLLMProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("%s API error %d: %s: %w", operation, reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("%s API error %d: %s: %w", operation, reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", operation, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("%s request failed: %w", operation, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
