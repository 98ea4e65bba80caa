package cache

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/response"
)

func newTestCache(maxEntries int, ttl time.Duration) *ResponseCache {
	return New(maxEntries, ttl, nil, zap.NewNop())
}

func TestCache_GetSet(t *testing.T) {
	c := newTestCache(10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	resp := &response.Response{Query: "faded stop sign"}
	c.Set("k1", resp)

	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != resp {
		t.Error("cache must return the stored response instance unchanged")
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	c := newTestCache(2, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), &response.Response{})
	}

	if c.Snapshot().Size > 2 {
		t.Errorf("cache exceeded capacity: size=%d", c.Snapshot().Size)
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("k2"); !ok {
		t.Error("newest entry should survive")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := newTestCache(10, 20*time.Millisecond)
	c.Set("k", &response.Response{})

	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestCache_Snapshot(t *testing.T) {
	c := newTestCache(10, time.Minute)
	c.Set("k", &response.Response{})

	c.Get("k")       // hit
	c.Get("absent")  // miss
	c.Get("absent2") // miss

	s := c.Snapshot()
	if s.Hits != 1 || s.Misses != 2 {
		t.Errorf("unexpected stats: hits=%d misses=%d", s.Hits, s.Misses)
	}
	if s.HitRate <= 0.3 || s.HitRate >= 0.4 {
		t.Errorf("unexpected hit rate: %f", s.HitRate)
	}
}

func TestCache_Purge(t *testing.T) {
	c := newTestCache(10, time.Minute)
	c.Set("k", &response.Response{})
	c.Purge()

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after purge")
	}
}
