package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dkalmar/homescope/internal/ledger"
	"github.com/dkalmar/homescope/internal/logger"
	"github.com/dkalmar/homescope/internal/models"
)

// DefaultFreshnessWindow is how long a past search stays eligible for reuse.
const DefaultFreshnessWindow = 24 * time.Hour

// ErrRefreshFailed wraps a fetch failure. No ledger entry is written for a
// failed refresh, so a later search never believes stale data exists.
var ErrRefreshFailed = errors.New("refresh failed")

// Action is the outcome of a cache decision.
type Action string

const (
	ActionReuse   Action = "reuse"
	ActionRefresh Action = "refresh"
)

// Decision tells the caller whether a search can be served from a prior
// dataset. RecordID is set only for reuse.
type Decision struct {
	Action   Action `json:"action"`
	RecordID string `json:"recordId,omitempty"`
}

// FetchFunc performs the expensive external fetch for a refresh. It is
// supplied by the caller so the engine stays ignorant of how listings are
// actually retrieved.
type FetchFunc func(ctx context.Context) ([]models.Listing, error)

// PersistFunc stores a successfully fetched dataset under its new record id.
// It runs inside the per-key critical section, before the ledger append, so
// a recorded search never points at a dataset that was not written.
type PersistFunc func(ctx context.Context, recordID string, listings []models.Listing) error

// RefreshResult is the outcome of one (possibly coalesced) refresh.
type RefreshResult struct {
	RecordID string
	Listings []models.Listing
	// Coalesced is true when this caller shared another caller's in-flight
	// fetch instead of triggering its own.
	Coalesced bool
}

// Engine decides whether a search needs a fresh fetch or can reuse a recent
// superset dataset, and serializes concurrent refreshes per
// (propertyType, locationCode) key.
type Engine struct {
	store  ledger.Store
	clock  func() time.Time
	window time.Duration
	log    *logger.Logger
	group  singleflight.Group
}

// NewEngine creates a decision engine over the given ledger. A nil clock
// defaults to time.Now; a non-positive window defaults to
// DefaultFreshnessWindow.
func NewEngine(store ledger.Store, window time.Duration, clock func() time.Time, log *logger.Logger) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	return &Engine{
		store:  store,
		clock:  clock,
		window: window,
		log:    log,
	}
}

// Decide validates the filter and checks the ledger for a fresh record whose
// ranges contain the new filter's. Ledger failures are returned as-is, never
// folded into a refresh decision; the caller chooses its own policy for them.
func (e *Engine) Decide(ctx context.Context, filter models.FilterSpec) (Decision, error) {
	if err := filter.Validate(); err != nil {
		return Decision{}, err
	}

	now := e.clock()
	since := now.Add(-e.window)

	candidates, err := e.store.Query(ctx, filter.PropertyType, filter.LocationCode, since)
	if err != nil {
		return Decision{}, fmt.Errorf("cache decision for key %s: %w", filter.CacheKey(), err)
	}

	// Candidates arrive most recent first, id-ascending on ties; the first
	// superset match is the winner.
	for _, c := range candidates {
		if filter.SubsetOf(c.Filter) {
			e.log.Debug("Cache hit, reusing prior search", map[string]interface{}{
				"key":       filter.CacheKey(),
				"record_id": c.ID,
				"age":       now.Sub(c.SearchedAt).String(),
			})
			return Decision{Action: ActionReuse, RecordID: c.ID}, nil
		}
	}

	e.log.Debug("Cache miss, refresh required", map[string]interface{}{
		"key":        filter.CacheKey(),
		"candidates": len(candidates),
	})
	return Decision{Action: ActionRefresh}, nil
}

// Refresh runs the fetch for a key, coalescing concurrent callers: at most
// one fetch is in flight per (propertyType, locationCode) key, and every
// waiter shares its outcome. Persistence and the ledger append happen
// exactly once, by the fetching call, only after the fetch succeeds.
//
// The fetch runs detached from the initiating caller's context so that a
// caller abandoning its request does not starve coalesced waiters of the
// in-progress result.
func (e *Engine) Refresh(ctx context.Context, filter models.FilterSpec, fetch FetchFunc, persist PersistFunc) (RefreshResult, error) {
	key := filter.CacheKey()

	v, err, shared := e.group.Do(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)

		listings, err := fetch(fetchCtx)
		if err != nil {
			e.log.Warn("Refresh fetch failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
		}

		record := models.SearchRecord{
			ID:         uuid.New().String(),
			Filter:     filter,
			SearchedAt: e.clock(),
		}
		if persist != nil {
			if err := persist(fetchCtx, record.ID, listings); err != nil {
				return nil, fmt.Errorf("persist refreshed dataset for key %s: %w", key, err)
			}
		}
		if err := e.store.Append(fetchCtx, record); err != nil {
			return nil, fmt.Errorf("record refresh for key %s: %w", key, err)
		}

		e.log.Info("Refresh completed", map[string]interface{}{
			"key":       key,
			"record_id": record.ID,
			"listings":  len(listings),
		})
		return RefreshResult{RecordID: record.ID, Listings: listings}, nil
	})
	if err != nil {
		return RefreshResult{}, err
	}

	result := v.(RefreshResult)
	result.Coalesced = shared
	return result, nil
}
