package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkalmar/homescope/internal/database"
	"github.com/dkalmar/homescope/internal/models"
)

// PostgresStore persists the search ledger in PostgreSQL. The filter
// snapshot is stored as JSONB; the (property_type, location_code,
// searched_at) columns are denormalized for the range query.
type PostgresStore struct {
	db *database.Database
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(db *database.Database) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts a new search record. Any failure surfaces as
// ErrUnavailable so the decision engine never mistakes it for a miss.
func (s *PostgresStore) Append(ctx context.Context, record models.SearchRecord) error {
	filterJSON, err := json.Marshal(record.Filter)
	if err != nil {
		return fmt.Errorf("encode filter snapshot: %w", err)
	}

	query := `
		INSERT INTO search_records (id, property_type, location_code, filter, searched_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.Pool.Exec(ctx, query,
		record.ID,
		string(record.Filter.PropertyType),
		record.Filter.LocationCode,
		filterJSON,
		record.SearchedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: append record %s: %v", ErrUnavailable, record.ID, err)
	}
	return nil
}

// Query returns records for the exact key with searched_at >= since,
// most recent first with id as the deterministic tie-break.
func (s *PostgresStore) Query(ctx context.Context, propertyType models.PropertyType, locationCode string, since time.Time) ([]models.SearchRecord, error) {
	query := `
		SELECT id, filter, searched_at
		FROM search_records
		WHERE property_type = $1
		  AND location_code = $2
		  AND searched_at >= $3
		ORDER BY searched_at DESC, id ASC
	`

	rows, err := s.db.Pool.Query(ctx, query, string(propertyType), locationCode, since)
	if err != nil {
		return nil, fmt.Errorf("%w: query key (%s, %s): %v", ErrUnavailable, propertyType, locationCode, err)
	}
	defer rows.Close()

	var records []models.SearchRecord
	for rows.Next() {
		var record models.SearchRecord
		var filterJSON []byte

		if err := rows.Scan(&record.ID, &filterJSON, &record.SearchedAt); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", ErrUnavailable, err)
		}
		if err := json.Unmarshal(filterJSON, &record.Filter); err != nil {
			return nil, fmt.Errorf("decode filter snapshot for record %s: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", ErrUnavailable, err)
	}

	return records, nil
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)
