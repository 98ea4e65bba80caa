// Package catalog is the structured intervention store: an in-memory snapshot
// of the cleaned catalog JSON, queried by exact filters or substring match.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/clearway-labs/signpost/internal/domain"
	"github.com/clearway-labs/signpost/internal/domain/intervention"
	"github.com/clearway-labs/signpost/internal/domain/search"
)

// Store holds the catalog snapshot. Records are immutable after load, so all
// methods are safe for concurrent use.
type Store struct {
	records []intervention.Record
	byID    map[string]intervention.Record
	logger  *zap.Logger
}

// Stats summarizes the catalog contents.
type Stats struct {
	TotalInterventions int            `json:"total_interventions"`
	Categories         map[string]int `json:"categories"`
	Problems           map[string]int `json:"problems"`
	Codes              []string       `json:"irc_standards"`
}

// Load reads the catalog from a JSON file.
func Load(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var records []intervention.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	s := New(records, logger)
	logger.Info("Catalog loaded", zap.String("path", path), zap.Int("records", len(records)))
	return s, nil
}

// New creates a store over an already-parsed record set.
func New(records []intervention.Record, logger *zap.Logger) *Store {
	byID := make(map[string]intervention.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return &Store{records: records, byID: byID, logger: logger}
}

// Filter returns up to limit records matching every set filter dimension,
// in store order. Records without speed data pass any speed filter.
func (s *Store) Filter(_ context.Context, f search.Filters, limit int) ([]intervention.Record, error) {
	matched := make([]intervention.Record, 0, limit)

	for _, rec := range s.records {
		if len(f.Categories) > 0 && !contains(f.Categories, rec.Category) {
			continue
		}
		if len(f.Problems) > 0 && !contains(f.Problems, rec.Problem) {
			continue
		}
		if f.Code != "" && rec.Code != f.Code {
			continue
		}
		if f.SpeedMin != nil && f.SpeedMax != nil && !rec.MatchesSpeedRange(*f.SpeedMin, *f.SpeedMax) {
			continue
		}

		matched = append(matched, rec)
		if len(matched) >= limit {
			break
		}
	}

	return matched, nil
}

// TextSearch returns the first limit records whose search text contains the
// query, case-insensitively, in store order.
func (s *Store) TextSearch(_ context.Context, query string, limit int) ([]intervention.Record, error) {
	q := strings.ToLower(query)
	matched := make([]intervention.Record, 0, limit)

	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.SearchBlob()), q) {
			matched = append(matched, rec)
			if len(matched) >= limit {
				break
			}
		}
	}

	return matched, nil
}

// GetByID returns a single record by identifier.
func (s *Store) GetByID(id string) (intervention.Record, error) {
	rec, ok := s.byID[id]
	if !ok {
		return intervention.Record{}, fmt.Errorf("intervention %q: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

// All returns up to limit records in store order. limit <= 0 means all.
func (s *Store) All(limit int) []intervention.Record {
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]intervention.Record, limit)
	copy(out, s.records[:limit])
	return out
}

// Len returns the number of records in the snapshot.
func (s *Store) Len() int { return len(s.records) }

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories() []string {
	return s.distinct(func(r intervention.Record) string { return r.Category })
}

// Problems returns the distinct problem types in first-seen order.
func (s *Store) Problems() []string {
	return s.distinct(func(r intervention.Record) string { return r.Problem })
}

// Codes returns the distinct IRC codes in first-seen order.
func (s *Store) Codes() []string {
	return s.distinct(func(r intervention.Record) string { return r.Code })
}

// Snapshot returns catalog statistics.
func (s *Store) Snapshot() Stats {
	stats := Stats{
		TotalInterventions: len(s.records),
		Categories:         make(map[string]int),
		Problems:           make(map[string]int),
		Codes:              s.Codes(),
	}
	for _, r := range s.records {
		stats.Categories[r.Category]++
		stats.Problems[r.Problem]++
	}
	return stats
}

func (s *Store) distinct(key func(intervention.Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
