// Package cache provides the bounded, time-expiring response memo.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/response"
)

// ResponseCache memoizes search responses by request fingerprint. Both the
// capacity and the TTL bounds are enforced; eviction only affects hit rate,
// never correctness. Safe for concurrent use.
type ResponseCache struct {
	lru        *expirable.LRU[string, *response.Response]
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Size       int     `json:"size"`
	MaxEntries int     `json:"max_entries"`
	TTLSec     int     `json:"ttl_sec"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// New creates a response cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); may be nil.
func New(maxEntries int, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{
		lru:        expirable.NewLRU[string, *response.Response](maxEntries, nil, ttl),
		maxEntries: maxEntries,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the memoized response for a fingerprint, if present and fresh.
func (c *ResponseCache) Get(key string) (*response.Response, bool) {
	resp, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		c.inc("hit")
		return resp, true
	}
	c.misses.Add(1)
	c.inc("miss")
	return nil, false
}

// Set stores a response under its fingerprint. Best-effort: an entry evicted
// to make room is simply recomputed on its next miss.
func (c *ResponseCache) Set(key string, resp *response.Response) {
	c.lru.Add(key, resp)
}

// Purge drops every cached response.
func (c *ResponseCache) Purge() {
	c.lru.Purge()
	c.logger.Info("Response cache purged")
}

// Snapshot returns current cache statistics.
func (c *ResponseCache) Snapshot() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	return Stats{
		Size:       c.lru.Len(),
		MaxEntries: c.maxEntries,
		TTLSec:     int(c.ttl / time.Second),
		Hits:       hits,
		Misses:     misses,
		HitRate:    rate,
	}
}

func (c *ResponseCache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
