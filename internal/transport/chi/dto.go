package chi

import (
	"encoding/json"
	"net/http"

	domsearch "github.com/clearway-labs/signpost/internal/domain/search"
	healthuc "github.com/clearway-labs/signpost/internal/usecase/health"
)

// Error response codes.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeUnauthorized     = "unauthorized"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// searchRequest is the POST /search payload.
type searchRequest struct {
	Query      string             `json:"query"`
	Filters    *domsearch.Filters `json:"filters,omitempty"`
	Strategy   string             `json:"strategy,omitempty"`
	MaxResults int                `json:"max_results,omitempty"`
}

func (r searchRequest) toDomain() (domsearch.Request, error) {
	var f domsearch.Filters
	if r.Filters != nil {
		f = *r.Filters
	}
	return domsearch.NewRequest(r.Query, f, domsearch.Strategy(r.Strategy), r.MaxResults)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
