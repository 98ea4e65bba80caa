package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain"
	"github.com/clearway-labs/signpost/internal/domain/intervention"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Vector: m.vector, TotalTokens: 7}, nil
}

type mockIndex struct {
	hits []domsearch.Hit
	err  error
	gotK int
}

func (m *mockIndex) Query(
	_ context.Context, _ []float32, k int, _ domsearch.Filters,
) ([]domsearch.Hit, error) {
	m.gotK = k
	return m.hits, m.err
}

func TestSimilarity_DistanceToConfidence(t *testing.T) {
	index := &mockIndex{hits: []domsearch.Hit{
		{Record: intervention.Record{ID: "exact"}, Distance: 0},
		{Record: intervention.Record{ID: "half"}, Distance: 1},
		{Record: intervention.Record{ID: "opposite"}, Distance: 2},
	}}
	s := NewSimilarity(&mockEmbedder{vector: []float32{0.1}}, index, zap.NewNop())

	results := s.Search(context.Background(), "faded sign", domsearch.Filters{}, 3)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantConf := []float64{1.0, 0.5, 0.0}
	for i, want := range wantConf {
		if math.Abs(results[i].Confidence-want) > 1e-10 {
			t.Errorf("hit %d: expected confidence %f, got %f", i, want, results[i].Confidence)
		}
		if results[i].Relevance != results[i].Confidence {
			t.Errorf("hit %d: relevance must equal confidence", i)
		}
	}
	if results[0].MatchReason != "Vector similarity: 1.00" {
		t.Errorf("unexpected match reason: %q", results[0].MatchReason)
	}
	if index.gotK != 3 {
		t.Errorf("expected k=3, got %d", index.gotK)
	}
}

func TestSimilarity_PreservesIndexOrder(t *testing.T) {
	index := &mockIndex{hits: []domsearch.Hit{
		{Record: intervention.Record{ID: "first"}, Distance: 0.2},
		{Record: intervention.Record{ID: "second"}, Distance: 0.4},
	}}
	s := NewSimilarity(&mockEmbedder{vector: []float32{0.1}}, index, zap.NewNop())

	results := s.Search(context.Background(), "q", domsearch.Filters{}, 2)
	if results[0].Record.ID != "first" || results[1].Record.ID != "second" {
		t.Errorf("index order not preserved: %q, %q", results[0].Record.ID, results[1].Record.ID)
	}
}

func TestSimilarity_DegradesOnEmbedFailure(t *testing.T) {
	s := NewSimilarity(&mockEmbedder{err: errors.New("provider down")}, &mockIndex{}, zap.NewNop())

	if results := s.Search(context.Background(), "q", domsearch.Filters{}, 5); len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestSimilarity_DegradesOnIndexFailure(t *testing.T) {
	index := &mockIndex{err: errors.New("index unavailable")}
	s := NewSimilarity(&mockEmbedder{vector: []float32{0.1}}, index, zap.NewNop())

	if results := s.Search(context.Background(), "q", domsearch.Filters{}, 5); len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}
