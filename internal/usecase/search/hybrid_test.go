package search

import (
	"context"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain/intervention"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
)

func makeResult(id string, conf float64) domsearch.Result {
	return domsearch.Result{
		Record:     intervention.Record{ID: id, Problem: "Faded", Category: "Road Sign"},
		Confidence: conf,
		Relevance:  conf,
	}
}

func TestFuseRRF_BothListsRankOne(t *testing.T) {
	sim := []domsearch.Result{makeResult("a", 0.9)}
	structured := []domsearch.Result{makeResult("a", 0.8)}

	results := fuseRRF(sim, structured, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Rank 1 in both: raw score 2/61, normalized to exactly 1.0.
	if math.Abs(results[0].Confidence-1.0) > 1e-10 {
		t.Errorf("expected confidence 1.0, got %f", results[0].Confidence)
	}
	if results[0].MatchReason != "Hybrid fusion (RRF score: 0.0328)" {
		t.Errorf("unexpected match reason: %q", results[0].MatchReason)
	}
}

func TestFuseRRF_SingleListRankOne(t *testing.T) {
	sim := []domsearch.Result{makeResult("a", 0.9)}

	results := fuseRRF(sim, nil, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Rank 1 in one list only: 1/61 against the two-list maximum 2/61 = 0.5.
	if math.Abs(results[0].Confidence-0.5) > 1e-10 {
		t.Errorf("expected confidence 0.5, got %f", results[0].Confidence)
	}
}

func TestFuseRRF_OverlapOutranksSingleSource(t *testing.T) {
	sim := []domsearch.Result{makeResult("a", 0), makeResult("b", 0), makeResult("c", 0)}
	structured := []domsearch.Result{makeResult("b", 0), makeResult("d", 0)}

	results := fuseRRF(sim, structured, 10)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Record.ID != "b" {
		t.Errorf("expected overlap record 'b' first, got %q", results[0].Record.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Confidence > results[i-1].Confidence {
			t.Errorf("results not sorted at index %d", i)
		}
	}
}

func TestFuseRRF_Deterministic(t *testing.T) {
	sim := []domsearch.Result{makeResult("a", 0), makeResult("b", 0), makeResult("c", 0)}
	structured := []domsearch.Result{makeResult("c", 0), makeResult("d", 0), makeResult("a", 0)}

	first := fuseRRF(sim, structured, 10)
	for i := 0; i < 20; i++ {
		again := fuseRRF(sim, structured, 10)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("fusion not deterministic on run %d", i)
		}
	}
}

func TestFuseRRF_TiesKeepFirstSeenOrder(t *testing.T) {
	// Disjoint lists at equal ranks produce equal scores; similarity results
	// were scanned first, so they sort ahead of structured results.
	sim := []domsearch.Result{makeResult("a", 0), makeResult("b", 0)}
	structured := []domsearch.Result{makeResult("c", 0), makeResult("d", 0)}

	results := fuseRRF(sim, structured, 10)
	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Record.ID
	}
	want := []string{"a", "c", "b", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestFuseRRF_Truncates(t *testing.T) {
	sim := []domsearch.Result{makeResult("a", 0), makeResult("b", 0), makeResult("c", 0)}
	structured := []domsearch.Result{makeResult("d", 0), makeResult("e", 0)}

	results := fuseRRF(sim, structured, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestFuseRRF_Empty(t *testing.T) {
	if results := fuseRRF(nil, nil, 10); len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

type stubStrategy struct {
	name    domsearch.Strategy
	results []domsearch.Result
	gotMax  int
}

func (s *stubStrategy) Name() domsearch.Strategy { return s.name }

func (s *stubStrategy) Search(
	_ context.Context, _ string, _ domsearch.Filters, maxResults int,
) []domsearch.Result {
	s.gotMax = maxResults
	return s.results
}

func TestHybrid_FansOutWithHeadroom(t *testing.T) {
	sim := &stubStrategy{name: domsearch.RAG, results: []domsearch.Result{makeResult("a", 0.9)}}
	structured := &stubStrategy{name: domsearch.Structured, results: []domsearch.Result{makeResult("a", 0.7)}}

	h := NewHybrid(sim, structured, zap.NewNop())
	results := h.Search(context.Background(), "faded sign", domsearch.Filters{}, 5)

	if sim.gotMax != 10 || structured.gotMax != 10 {
		t.Errorf("expected sub-searches asked for 10 candidates, got %d and %d", sim.gotMax, structured.gotMax)
	}
	if len(results) != 1 || results[0].Confidence != 1.0 {
		t.Fatalf("unexpected fusion output: %+v", results)
	}
}

func TestHybrid_DegradedSubSearch(t *testing.T) {
	sim := &stubStrategy{name: domsearch.RAG} // degraded, returns nothing
	structured := &stubStrategy{name: domsearch.Structured, results: []domsearch.Result{makeResult("a", 0.7)}}

	h := NewHybrid(sim, structured, zap.NewNop())
	results := h.Search(context.Background(), "faded sign", domsearch.Filters{}, 5)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if math.Abs(results[0].Confidence-0.5) > 1e-10 {
		t.Errorf("single-source rank 1 should normalize to 0.5, got %f", results[0].Confidence)
	}
}
