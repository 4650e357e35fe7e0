package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/dkalmar/homescope/internal/models"
)

// ErrUnavailable signals that the backing store could not be read or
// written. Implementations wrap it so callers can distinguish a storage
// failure from an empty query result with errors.Is.
var ErrUnavailable = errors.New("ledger unavailable")

// Store is the append-only search cache ledger. Records are never updated
// or deleted; Query returns only records for the exact (propertyType,
// locationCode) key with a timestamp at or after since, most recent first.
type Store interface {
	Append(ctx context.Context, record models.SearchRecord) error
	Query(ctx context.Context, propertyType models.PropertyType, locationCode string, since time.Time) ([]models.SearchRecord, error)
}
