package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkalmar/homescope/internal/database"
	"github.com/dkalmar/homescope/internal/models"
)

// ListingRepository stores the raw listing dataset of each recorded search
// and serves re-filtered views of it when a search is answered from the
// cache.
type ListingRepository interface {
	// SaveBatch persists the listings fetched for one search record.
	SaveBatch(ctx context.Context, recordID string, listings []models.Listing) error

	// FindByRecord returns the listings of a recorded search narrowed by
	// the given filter's bounds. Returns an empty slice when nothing
	// matches (not an error).
	FindByRecord(ctx context.Context, recordID string, filter models.FilterSpec) ([]models.Listing, error)
}

// listingRepository is the PostgreSQL implementation of ListingRepository.
type listingRepository struct {
	db *database.Database
}

// NewListingRepository creates a ListingRepository over the shared pool.
func NewListingRepository(db *database.Database) ListingRepository {
	return &listingRepository{db: db}
}

// SaveBatch inserts the dataset of one refresh in a single transaction so a
// partially written dataset is never visible to reuse queries.
func (r *listingRepository) SaveBatch(ctx context.Context, recordID string, listings []models.Listing) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin listing batch for record %s: %w", recordID, err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO listings (record_id, listing_id, property_type, location_code, price, size_m2, rooms, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, l := range listings {
		_, err := tx.Exec(ctx, query,
			recordID,
			l.ID,
			string(l.PropertyType),
			l.LocationCode,
			l.Price,
			l.SizeM2,
			l.Rooms,
			string(l.Condition),
		)
		if err != nil {
			return fmt.Errorf("failed to insert listing %s for record %s: %w", l.ID, recordID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit listing batch for record %s: %w", recordID, err)
	}
	return nil
}

// FindByRecord loads a recorded dataset narrowed to the filter's bounds.
// The bound clauses are appended only for bounds that are actually set,
// mirroring how the filter itself treats missing bounds as unbounded.
func (r *listingRepository) FindByRecord(ctx context.Context, recordID string, filter models.FilterSpec) ([]models.Listing, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT listing_id, property_type, location_code, price, size_m2, rooms, condition
		FROM listings
		WHERE record_id = $1
	`)
	args := []interface{}{recordID}

	addBound := func(column, op string, value *float64) {
		if value == nil {
			return
		}
		args = append(args, *value)
		fmt.Fprintf(&sb, " AND %s %s $%d", column, op, len(args))
	}
	addBound("price", ">=", filter.PriceMin)
	addBound("price", "<=", filter.PriceMax)
	addBound("size_m2", ">=", filter.SizeMin)
	addBound("size_m2", "<=", filter.SizeMax)
	addBound("rooms", ">=", filter.RoomsMin)
	addBound("rooms", "<=", filter.RoomsMax)

	sb.WriteString(" ORDER BY listing_id")

	rows, err := r.db.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings for record %s: %w", recordID, err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		var propertyType, condition string

		err := rows.Scan(
			&l.ID,
			&propertyType,
			&l.LocationCode,
			&l.Price,
			&l.SizeM2,
			&l.Rooms,
			&condition,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		l.PropertyType = models.PropertyType(propertyType)
		l.Condition = models.Condition(condition)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}

	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}
