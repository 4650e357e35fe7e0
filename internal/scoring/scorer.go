package scoring

import (
	"fmt"
	"math"

	"github.com/dkalmar/homescope/internal/market"
	"github.com/dkalmar/homescope/internal/models"
)

// Scorer assigns a 0-100 value score and a qualitative category to listings
// by comparing their unit price against their size band's statistics. Pure
// and stateless; identical inputs always produce identical output.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer with the given tuning.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score assesses one listing against its band statistics. When the band has
// no samples or the listing has no usable unit price, the assessment comes
// back with category unknown and score 0 rather than a guessed default.
func (s *Scorer) Score(listing models.Listing, stats market.SegmentStats) models.ValueAssessment {
	assessment := models.ValueAssessment{
		ListingID: listing.ID,
		Category:  models.CategoryUnknown,
	}

	ppm, ok := listing.PricePerM2()
	if !ok || !stats.Known || stats.Mean == 0 {
		assessment.Insight = "not enough market data for comparison"
		return assessment
	}

	delta := (ppm - stats.Mean) / stats.Mean
	assessment.PercentDelta = delta
	assessment.Category = s.categorize(delta)

	total := s.marketComparison(delta) +
		s.roomEfficiency(listing) +
		s.confidence(stats.SampleSize) +
		s.conditionBonus(listing.Condition) +
		s.sizePremium(listing)

	assessment.Score = int(math.Round(clamp(total, 0, s.cfg.MaxScore)))
	assessment.Insight = fmt.Sprintf("band mean %.0f/m2 over %d listings", stats.Mean, stats.SampleSize)
	return assessment
}

// categorize maps a percent delta to its qualitative category.
func (s *Scorer) categorize(delta float64) models.ValueCategory {
	switch {
	case delta <= s.cfg.ExcellentBelow:
		return models.CategoryExcellent
	case delta <= s.cfg.GoodBelow:
		return models.CategoryGood
	case delta < s.cfg.AverageBelow:
		return models.CategoryAverage
	case delta < s.cfg.AboveMarketBelow:
		return models.CategoryAboveMarket
	default:
		return models.CategoryExpensive
	}
}

// marketComparison is linear in the percent delta: a listing at the anchor
// below the mean earns full points, at the mean half, at the anchor above
// zero. Clamped so cheaper never scores fewer points.
func (s *Scorer) marketComparison(delta float64) float64 {
	half := s.cfg.MarketWeight / 2
	return clamp(half-(delta/s.cfg.MarketAnchor)*half, 0, s.cfg.MarketWeight)
}

// roomEfficiency rewards room density relative to the expectation for the
// property type. Listings without room data get a neutral middle score.
func (s *Scorer) roomEfficiency(l models.Listing) float64 {
	if l.Rooms <= 0 || l.SizeM2 <= 0 {
		return s.cfg.RoomNeutral
	}
	full, ok := s.cfg.RoomFullDensity[l.PropertyType]
	if !ok {
		full = s.cfg.RoomNeutralScale
	}
	density := l.Rooms / l.SizeM2
	return clamp(density/full*s.cfg.RoomWeight, 0, s.cfg.RoomWeight)
}

// confidence grows linearly with sample size and saturates once the band
// has enough comparables.
func (s *Scorer) confidence(sampleSize int) float64 {
	sat := float64(s.cfg.ConfidenceSaturation)
	return clamp(float64(sampleSize)/sat*s.cfg.ConfidenceWeight, 0, s.cfg.ConfidenceWeight)
}

func (s *Scorer) conditionBonus(c models.Condition) float64 {
	return s.cfg.ConditionPoints[c]
}

// sizePremium awards the flat luxury bonus when the size clears the
// type-specific cutoff. Types without a cutoff never earn it.
func (s *Scorer) sizePremium(l models.Listing) float64 {
	cutoff, ok := s.cfg.LuxuryCutoff[l.PropertyType]
	if !ok || l.SizeM2 <= cutoff {
		return 0
	}
	return s.cfg.LuxuryPoints[l.PropertyType]
}

// LegacyScore is the pre-market-analysis fallback, room count scaled by the
// inverse unit price. Used to keep unknown-category listings sortable when
// a band has no comparables. The second return value is false when the
// listing has no usable unit price.
func LegacyScore(l models.Listing) (float64, bool) {
	ppm, ok := l.PricePerM2()
	if !ok || ppm == 0 {
		return 0, false
	}
	return math.Round(l.Rooms*1000/ppm*100) / 100, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
