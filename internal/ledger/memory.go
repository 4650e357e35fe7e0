package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dkalmar/homescope/internal/models"
)

// MemoryStore is an in-process Store for tests and single-node development.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.SearchRecord
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record to the log.
func (s *MemoryStore) Append(ctx context.Context, record models.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Query returns records for the exact key with SearchedAt >= since, most
// recent first; ties order by ascending record id so selection stays
// deterministic.
func (s *MemoryStore) Query(ctx context.Context, propertyType models.PropertyType, locationCode string, since time.Time) ([]models.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.SearchRecord
	for _, r := range s.records {
		if r.Filter.PropertyType != propertyType || r.Filter.LocationCode != locationCode {
			continue
		}
		if r.SearchedAt.Before(since) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SearchedAt.Equal(out[j].SearchedAt) {
			return out[i].SearchedAt.After(out[j].SearchedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Len reports the number of records in the log.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)
