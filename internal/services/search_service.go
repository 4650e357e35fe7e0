package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dkalmar/homescope/internal/cache"
	"github.com/dkalmar/homescope/internal/logger"
	"github.com/dkalmar/homescope/internal/market"
	"github.com/dkalmar/homescope/internal/models"
	"github.com/dkalmar/homescope/internal/repository"
	"github.com/dkalmar/homescope/internal/scoring"
)

// RawListingSource is the external collaborator performing the expensive
// listing fetch. Retry and timeout policy live behind this interface, not
// here.
type RawListingSource interface {
	Fetch(ctx context.Context, filter models.FilterSpec) ([]models.Listing, error)
}

// SortKey selects the ordering of scored results.
type SortKey string

const (
	SortDefault   SortKey = ""
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortSizeAsc   SortKey = "size_asc"
	SortSizeDesc  SortKey = "size_desc"
	SortScoreAsc  SortKey = "score_asc"
	SortScoreDesc SortKey = "score_desc"
	SortDeltaAsc  SortKey = "delta_asc"
	SortDeltaDesc SortKey = "delta_desc"
)

// ScoredListing pairs a listing with its market assessment.
type ScoredListing struct {
	Listing    models.Listing         `json:"listing"`
	Assessment models.ValueAssessment `json:"assessment"`
	BandLabel  string                 `json:"bandLabel,omitempty"`
}

// SearchResult is the full outcome of one search: the cache decision taken,
// the scored listings matching the filter, the per-band statistics of the
// backing dataset, and the count of listings excluded for missing size.
type SearchResult struct {
	Decision cache.Decision       `json:"decision"`
	RecordID string               `json:"recordId"`
	Listings []ScoredListing      `json:"listings"`
	Stats    []market.SegmentStats `json:"stats"`
	Unscored int                  `json:"unscored"`
	Total    int                  `json:"total"`
}

// SearchService runs the full search pipeline: cache decision, fetch or
// reuse, segmentation, statistics, and scoring.
type SearchService interface {
	Search(ctx context.Context, filter models.FilterSpec, sortKey SortKey) (*SearchResult, error)
}

// searchService is the concrete implementation of SearchService.
type searchService struct {
	engine *cache.Engine
	repo   repository.ListingRepository
	source RawListingSource
	scorer *scoring.Scorer
	log    *logger.Logger
}

// NewSearchService creates a SearchService wired to the given collaborators.
func NewSearchService(engine *cache.Engine, repo repository.ListingRepository, source RawListingSource, scorer *scoring.Scorer, log *logger.Logger) SearchService {
	return &searchService{
		engine: engine,
		repo:   repo,
		source: source,
		scorer: scorer,
		log:    log,
	}
}

// Search decides whether to reuse or refresh, obtains the backing dataset,
// and returns scored market insight for every listing matching the filter.
// Statistics are always computed over the record's complete dataset, not
// the narrowed view, so a subset search sees the same band averages as the
// search that fetched the data.
func (s *searchService) Search(ctx context.Context, filter models.FilterSpec, sortKey SortKey) (*SearchResult, error) {
	decision, err := s.engine.Decide(ctx, filter)
	if err != nil {
		return nil, err
	}

	var dataset []models.Listing
	recordID := decision.RecordID

	switch decision.Action {
	case cache.ActionReuse:
		s.log.Info("Serving search from cached dataset", map[string]interface{}{
			"key":       filter.CacheKey(),
			"record_id": recordID,
		})
		// Load the whole record so band statistics stay complete; the
		// user's bounds are applied in memory below.
		keyOnly := models.FilterSpec{
			PropertyType: filter.PropertyType,
			LocationCode: filter.LocationCode,
		}
		dataset, err = s.repo.FindByRecord(ctx, recordID, keyOnly)
		if err != nil {
			return nil, fmt.Errorf("load cached dataset %s: %w", recordID, err)
		}

	case cache.ActionRefresh:
		fetchFilter := s.expandForFetch(filter)
		s.log.Info("Refreshing listing dataset", map[string]interface{}{
			"key": filter.CacheKey(),
		})
		result, err := s.engine.Refresh(ctx, fetchFilter,
			func(fetchCtx context.Context) ([]models.Listing, error) {
				return s.source.Fetch(fetchCtx, fetchFilter)
			},
			s.repo.SaveBatch,
		)
		if err != nil {
			return nil, err
		}
		dataset = result.Listings
		recordID = result.RecordID
	}

	visible := make([]models.Listing, 0, len(dataset))
	for _, l := range dataset {
		if filter.Matches(l) {
			visible = append(visible, l)
		}
	}

	result := s.analyze(dataset, visible)
	result.Decision = decision
	result.RecordID = recordID
	sortListings(result.Listings, sortKey)

	s.log.Info("Search completed", map[string]interface{}{
		"key":      filter.CacheKey(),
		"action":   string(decision.Action),
		"matches":  len(result.Listings),
		"unscored": result.Unscored,
	})
	return result, nil
}

// expandForFetch widens the filter's size range to cover complete bands, so
// the fetched dataset yields stable band statistics and narrower follow-up
// searches can reuse it.
func (s *searchService) expandForFetch(filter models.FilterSpec) models.FilterSpec {
	expanded := filter
	expanded.SizeMin, expanded.SizeMax = market.ExpandSizeRange(filter.SizeMin, filter.SizeMax)
	return expanded
}

// analyze segments the full dataset, computes per-band statistics, and
// scores the visible listings against them.
func (s *searchService) analyze(dataset, visible []models.Listing) *SearchResult {
	seg := market.Segment(dataset)
	statsByBand := market.ComputeAllStats(seg)

	scored := make([]ScoredListing, 0, len(visible))
	unscored := 0
	for _, l := range visible {
		band, ok := market.BandFor(l.SizeM2)
		if !ok {
			unscored++
			scored = append(scored, ScoredListing{
				Listing: l,
				Assessment: models.ValueAssessment{
					ListingID: l.ID,
					Category:  models.CategoryUnknown,
					Insight:   "unscored due to missing size",
				},
			})
			continue
		}
		scored = append(scored, ScoredListing{
			Listing:    l,
			Assessment: s.scorer.Score(l, statsByBand[band.ID]),
			BandLabel:  band.Label(),
		})
	}

	stats := make([]market.SegmentStats, 0, len(statsByBand))
	for _, b := range market.Bands() {
		stats = append(stats, statsByBand[b.ID])
	}

	return &SearchResult{
		Listings: scored,
		Stats:    stats,
		Unscored: unscored,
		Total:    len(visible),
	}
}

// sortListings orders scored results in place. Listings in unknown
// categories fall back to the legacy room-density score when ordering by
// score so they do not all collapse to zero.
func sortListings(listings []ScoredListing, key SortKey) {
	effectiveScore := func(sl ScoredListing) float64 {
		if sl.Assessment.Category != models.CategoryUnknown {
			return float64(sl.Assessment.Score)
		}
		if legacy, ok := scoring.LegacyScore(sl.Listing); ok {
			return legacy
		}
		return 0
	}

	var less func(a, b ScoredListing) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b ScoredListing) bool { return a.Listing.Price < b.Listing.Price }
	case SortPriceDesc:
		less = func(a, b ScoredListing) bool { return a.Listing.Price > b.Listing.Price }
	case SortSizeAsc:
		less = func(a, b ScoredListing) bool { return a.Listing.SizeM2 < b.Listing.SizeM2 }
	case SortSizeDesc:
		less = func(a, b ScoredListing) bool { return a.Listing.SizeM2 > b.Listing.SizeM2 }
	case SortScoreAsc:
		less = func(a, b ScoredListing) bool { return effectiveScore(a) < effectiveScore(b) }
	case SortScoreDesc:
		less = func(a, b ScoredListing) bool { return effectiveScore(a) > effectiveScore(b) }
	case SortDeltaAsc:
		less = func(a, b ScoredListing) bool { return a.Assessment.PercentDelta < b.Assessment.PercentDelta }
	case SortDeltaDesc:
		less = func(a, b ScoredListing) bool { return a.Assessment.PercentDelta > b.Assessment.PercentDelta }
	default:
		return
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return less(listings[i], listings[j])
	})
}
