// Package health aggregates component availability checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogReader
	index   IndexPinger
	model   ModelChecker
}

// New creates a Service. model can be nil.
func New(catalog CatalogReader, index IndexPinger, model ModelChecker) *Service {
	return &Service{catalog: catalog, index: index, model: model}
}

// Check runs health checks against all components. An empty catalog counts as
// a failure: the service cannot recommend anything without records.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog.Len() > 0 {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if err := s.index.Ping(ctx); err != nil {
		checks["vector_index"] = CheckError
	} else {
		checks["vector_index"] = CheckOK
	}

	if s.model != nil {
		if err := s.model.HealthCheck(ctx); err != nil {
			checks["llm"] = CheckError
		} else {
			checks["llm"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
