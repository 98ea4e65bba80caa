package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/clearway-labs/signpost/internal/domain"
)

// Search parameter limits.
const (
	DefaultMaxResults = 5
	MaxResultsLimit   = 20
	MaxQueryLength    = 4096
)

// Request is a validated search query.
type Request struct {
	query      string
	filters    Filters
	strategy   Strategy
	maxResults int
}

// NewRequest validates and normalizes search parameters.
// maxResults of 0 means unset and defaults to 5; out-of-range values are
// rejected before any collaborator is called.
func NewRequest(query string, filters Filters, strategy Strategy, maxResults int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults < 1 || maxResults > MaxResultsLimit {
		return Request{}, fmt.Errorf("%w: max_results must be between 1 and %d, got %d",
			domain.ErrInvalidRequest, MaxResultsLimit, maxResults)
	}
	if strategy == "" {
		strategy = Auto
	}

	return Request{
		query:      query,
		filters:    filters,
		strategy:   strategy,
		maxResults: maxResults,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Filters returns the caller-supplied filters.
func (r *Request) Filters() Filters { return r.filters }

// Strategy returns the requested strategy name.
func (r *Request) Strategy() Strategy { return r.strategy }

// MaxResults returns the maximum results to return.
func (r *Request) MaxResults() int { return r.maxResults }

// Fingerprint returns a deterministic cache key over the normalized query and
// the canonical filter encoding.
func (r *Request) Fingerprint() string {
	key := strings.ToLower(strings.TrimSpace(r.query)) + "\x00" + r.filters.canonical()
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
