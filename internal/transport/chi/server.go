// Package chi is the HTTP transport: routing, request decoding and domain
// error mapping for the intervention search API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/cache"
	"github.com/clearway-labs/signpost/internal/domain"
	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
	"github.com/clearway-labs/signpost/internal/repository/catalog"
	healthuc "github.com/clearway-labs/signpost/internal/usecase/health"
	queryuc "github.com/clearway-labs/signpost/internal/usecase/query"
)

// Catalog list defaults.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Server hosts the HTTP API handlers.
type Server struct {
	search  *queryuc.Service
	catalog *catalog.Store
	cache   *cache.ResponseCache
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *queryuc.Service,
	cat *catalog.Store,
	respCache *cache.ResponseCache,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:  search,
		catalog: cat,
		cache:   respCache,
		health:  health,
		logger:  logger,
	}
}

// Routes mounts all API handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)

		r.Route("/interventions", func(r chi.Router) {
			r.Get("/", s.ListInterventions)
			r.Get("/categories", s.ListCategories)
			r.Get("/problems", s.ListProblems)
			r.Get("/codes", s.ListCodes)
			r.Get("/{id}", s.GetIntervention)
		})

		r.Get("/stats", s.Stats)
		r.Get("/cache/stats", s.CacheStats)
		r.Delete("/cache", s.ClearCache)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var dto searchRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := dto.toDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Process(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListInterventions handles GET /api/v1/interventions.
func (s *Server) ListInterventions(w http.ResponseWriter, r *http.Request) {
	var f domsearch.Filters
	if c := r.URL.Query().Get("category"); c != "" {
		f.Categories = []string{c}
	}
	if p := r.URL.Query().Get("problem"); p != "" {
		f.Problems = []string{p}
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
		limit = n
	}

	records, err := s.catalog.Filter(r.Context(), f, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// GetIntervention handles GET /api/v1/interventions/{id}.
func (s *Server) GetIntervention(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListCategories handles GET /api/v1/interventions/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Categories())
}

// ListProblems handles GET /api/v1/interventions/problems.
func (s *Server) ListProblems(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Problems())
}

// ListCodes handles GET /api/v1/interventions/codes.
func (s *Server) ListCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Codes())
}

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Snapshot())
}

// CacheStats handles GET /api/v1/cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Snapshot())
}

// ClearCache handles DELETE /api/v1/cache.
func (s *Server) ClearCache(w http.ResponseWriter, _ *http.Request) {
	s.cache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
