package market

import (
	"math"
	"sort"

	"github.com/dkalmar/homescope/internal/models"
)

// SegmentStats carries the price-per-m2 statistics of one size band.
// Known is false when the band had no listings with a usable unit price;
// the numeric fields are zero in that case and must not be interpreted.
// StdDev is the population standard deviation, not sample-corrected.
type SegmentStats struct {
	BandID     int     `json:"bandId"`
	SampleSize int     `json:"sampleSize"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"stdDev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Known      bool    `json:"known"`
}

// ComputeStats derives the statistics of one band's listings from scratch.
// Listings without a defined price per m2 are skipped. Pure function; no
// state survives between calls.
func ComputeStats(bandID int, listings []models.Listing) SegmentStats {
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		if ppm, ok := l.PricePerM2(); ok {
			prices = append(prices, ppm)
		}
	}

	stats := SegmentStats{BandID: bandID, SampleSize: len(prices)}
	if len(prices) == 0 {
		return stats
	}
	stats.Known = true

	sort.Float64s(prices)
	stats.Min = prices[0]
	stats.Max = prices[len(prices)-1]

	var sum float64
	for _, p := range prices {
		sum += p
	}
	stats.Mean = sum / float64(len(prices))

	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		stats.Median = prices[mid]
	} else {
		stats.Median = (prices[mid-1] + prices[mid]) / 2
	}

	var sqSum float64
	for _, p := range prices {
		d := p - stats.Mean
		sqSum += d * d
	}
	stats.StdDev = math.Sqrt(sqSum / float64(len(prices)))

	return stats
}

// ComputeAllStats runs ComputeStats for every band of a segmentation,
// including empty bands so callers always see the full table.
func ComputeAllStats(seg Segmentation) map[int]SegmentStats {
	out := make(map[int]SegmentStats, len(bands))
	for _, b := range bands {
		out[b.ID] = ComputeStats(b.ID, seg.ByBand[b.ID])
	}
	return out
}
