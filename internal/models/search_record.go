package models

import (
	"time"
)

// SearchRecord is one entry of the search cache ledger: a snapshot of the
// filter a fetch was performed with and the time it completed. Records are
// immutable once written; the ledger is append-only.
type SearchRecord struct {
	ID         string     `json:"id"`
	Filter     FilterSpec `json:"filter"`
	SearchedAt time.Time  `json:"searchedAt"`
}
