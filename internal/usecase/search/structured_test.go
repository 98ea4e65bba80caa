package search

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

type mockCatalog struct {
	filtered   []intervention.Record
	textHits   []intervention.Record
	err        error
	filterUsed bool
	textUsed   bool
}

func (m *mockCatalog) Filter(
	_ context.Context, _ domsearch.Filters, _ int,
) ([]intervention.Record, error) {
	m.filterUsed = true
	return m.filtered, m.err
}

func (m *mockCatalog) TextSearch(
	_ context.Context, _ string, _ int,
) ([]intervention.Record, error) {
	m.textUsed = true
	return m.textHits, m.err
}

func TestStructured_TextSearchWhenNoFilters(t *testing.T) {
	cat := &mockCatalog{textHits: []intervention.Record{
		{ID: "RS_001", Problem: "Faded", Category: "Road Sign", Type: "STOP Sign"},
	}}
	s := NewStructured(cat, zap.NewNop())

	results := s.Search(context.Background(), "Faded STOP sign on 65 kmph highway", domsearch.Filters{}, 5)

	if !cat.textUsed || cat.filterUsed {
		t.Fatal("expected text search, not filter query")
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// All three substrings match: 0.5 + 0.2 + 0.15 + 0.15, capped at 1.0.
	if math.Abs(results[0].Confidence-1.0) > 1e-9 {
		t.Errorf("expected confidence 1.0, got %f", results[0].Confidence)
	}
	if results[0].MatchReason != "Text search match" {
		t.Errorf("unexpected match reason: %q", results[0].MatchReason)
	}
}

func TestStructured_FilterQueryWhenFiltersSet(t *testing.T) {
	cat := &mockCatalog{filtered: []intervention.Record{
		{ID: "RS_001", Problem: "Faded", Category: "Road Sign"},
	}}
	s := NewStructured(cat, zap.NewNop())

	lo, hi := 45, 85
	f := domsearch.Filters{
		Categories: []string{"Road Sign"},
		Problems:   []string{"Faded"},
		SpeedMin:   &lo,
		SpeedMax:   &hi,
	}
	results := s.Search(context.Background(), "anything", f, 5)

	if !cat.filterUsed || cat.textUsed {
		t.Fatal("expected filter query, not text search")
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	reason := results[0].MatchReason
	for _, want := range []string{"Category filter match", "Problem type filter match", "Speed range match"} {
		if !strings.Contains(reason, want) {
			t.Errorf("match reason %q missing %q", reason, want)
		}
	}
	// 0.5 base + 0.1 category in filter + 0.1 problem in filter; no query substrings.
	if math.Abs(results[0].Confidence-0.7) > 1e-10 {
		t.Errorf("expected confidence 0.7, got %f", results[0].Confidence)
	}
}

func TestStructured_ConfidenceCapped(t *testing.T) {
	rec := intervention.Record{ID: "x", Problem: "Faded", Category: "Road Sign", Type: "STOP Sign"}
	f := domsearch.Filters{Categories: []string{"Road Sign"}, Problems: []string{"Faded"}}

	conf := structuredConfidence(rec, "faded stop sign on the road sign", f)
	if conf != 1.0 {
		t.Errorf("expected capped confidence 1.0, got %f", conf)
	}
}

func TestStructured_DegradesOnStoreFailure(t *testing.T) {
	cat := &mockCatalog{err: errors.New("store corrupt")}
	s := NewStructured(cat, zap.NewNop())

	if results := s.Search(context.Background(), "q", domsearch.Filters{}, 5); len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}
