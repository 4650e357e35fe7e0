package scoring

import (
	"github.com/dkalmar/homescope/internal/models"
)

// Config collects every threshold and weight of the value score so tuning
// does not require touching the algorithm. All percent-delta thresholds are
// fractions (0.15 = 15%).
type Config struct {
	// Category boundaries on percent delta.
	ExcellentBelow   float64 // category excellent at or below this delta
	GoodBelow        float64 // category good at or below this delta
	AverageBelow     float64 // category average strictly below this delta
	AboveMarketBelow float64 // category aboveMarket strictly below this delta

	// Market comparison component (piecewise linear in percent delta).
	MarketWeight float64 // max points
	MarketAnchor float64 // delta at which the component bottoms out / tops out

	// Room efficiency component.
	RoomWeight       float64 // max points
	RoomNeutral      float64 // points when rooms are unknown
	RoomFullDensity  map[models.PropertyType]float64 // rooms/m2 earning full points
	RoomNeutralScale float64 // full-density fallback for unmapped types

	// Market confidence component.
	ConfidenceWeight     float64 // max points
	ConfidenceSaturation int     // sample size at which confidence saturates

	// Condition bonus, fixed mapping.
	ConditionPoints map[models.Condition]float64

	// Size premium for luxury properties.
	LuxuryCutoff map[models.PropertyType]float64 // m2 threshold per type
	LuxuryPoints map[models.PropertyType]float64 // flat bonus per type

	MaxScore float64
}

// DefaultConfig returns the tuning used in production. Apartments trade at
// higher room densities than houses, so their full-points density is higher
// and their luxury threshold lower.
func DefaultConfig() Config {
	return Config{
		ExcellentBelow:   -0.15,
		GoodBelow:        -0.05,
		AverageBelow:     0.05,
		AboveMarketBelow: 0.15,

		MarketWeight: 50,
		MarketAnchor: 0.15,

		RoomWeight:  25,
		RoomNeutral: 10,
		RoomFullDensity: map[models.PropertyType]float64{
			models.PropertyApartment: 0.04,
			models.PropertyHouse:     0.025,
		},
		RoomNeutralScale: 0.025,

		ConfidenceWeight:     15,
		ConfidenceSaturation: 5,

		ConditionPoints: map[models.Condition]float64{
			models.ConditionNew:       10,
			models.ConditionRenovated: 7,
			models.ConditionGood:      5,
			models.ConditionNeedsWork: 2,
			models.ConditionUnknown:   0,
		},

		LuxuryCutoff: map[models.PropertyType]float64{
			models.PropertyApartment: 150,
			models.PropertyHouse:     400,
		},
		LuxuryPoints: map[models.PropertyType]float64{
			models.PropertyApartment: 2,
			models.PropertyHouse:     3,
		},

		MaxScore: 100,
	}
}
