package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCatalog struct {
	n int
}

func (m *mockCatalog) Len() int { return m.n }

type mockIndexPinger struct {
	err error
}

func (m *mockIndexPinger) Ping(_ context.Context) error { return m.err }

type mockModelChecker struct {
	err error
}

func (m *mockModelChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCatalog{n: 121}, &mockIndexPinger{}, &mockModelChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"catalog", "vector_index", "llm"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_EmptyCatalog(t *testing.T) {
	svc := New(&mockCatalog{}, &mockIndexPinger{}, &mockModelChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["catalog"] != CheckError {
		t.Errorf("expected catalog %q, got %q", CheckError, r.Checks["catalog"])
	}
}

func TestCheck_IndexError(t *testing.T) {
	svc := New(&mockCatalog{n: 5}, &mockIndexPinger{err: errors.New("conn refused")}, &mockModelChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["vector_index"] != CheckError {
		t.Errorf("expected vector_index %q, got %q", CheckError, r.Checks["vector_index"])
	}
	if r.Checks["catalog"] != CheckOK {
		t.Errorf("expected catalog %q, got %q", CheckOK, r.Checks["catalog"])
	}
}

func TestCheck_ModelError(t *testing.T) {
	svc := New(&mockCatalog{n: 5}, &mockIndexPinger{}, &mockModelChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["llm"] != CheckError {
		t.Errorf("expected llm %q, got %q", CheckError, r.Checks["llm"])
	}
}

func TestCheck_NoModel(t *testing.T) {
	svc := New(&mockCatalog{n: 5}, &mockIndexPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["llm"]; ok {
		t.Error("llm check should be absent when model is nil")
	}
}
