package domain

import "errors"

var (
	// ErrNotFound signals a missing catalog record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a structurally invalid search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrLLMProviderError signals a language-model provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrVectorIndexError signals a vector index failure.
	ErrVectorIndexError = errors.New("vector index error")
)
