package market

import (
	"fmt"
	"math"

	"github.com/dkalmar/homescope/internal/models"
)

// SizeBand is one interval of the fixed segmentation table. Upper is
// math.Inf(1) for the open-ended top band. Bounds are inclusive.
type SizeBand struct {
	ID    int     `json:"id"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Label returns a display form such as "51-70 m2" or "501+ m2".
func (b SizeBand) Label() string {
	if math.IsInf(b.Upper, 1) {
		return fmt.Sprintf("%.0f+ m2", b.Lower)
	}
	return fmt.Sprintf("%.0f-%.0f m2", b.Lower, b.Upper)
}

// OpenEnded reports whether the band has no finite upper bound.
func (b SizeBand) OpenEnded() bool {
	return math.IsInf(b.Upper, 1)
}

// contains reports whether the size falls inside the band.
func (b SizeBand) contains(size float64) bool {
	return size >= b.Lower && size <= b.Upper
}

// bands is the fixed segmentation table. The intervals partition [0, inf):
// every positive size belongs to exactly one band.
var bands = []SizeBand{
	{ID: 0, Lower: 0, Upper: 30},
	{ID: 1, Lower: 31, Upper: 50},
	{ID: 2, Lower: 51, Upper: 70},
	{ID: 3, Lower: 71, Upper: 90},
	{ID: 4, Lower: 91, Upper: 120},
	{ID: 5, Lower: 121, Upper: 150},
	{ID: 6, Lower: 151, Upper: 200},
	{ID: 7, Lower: 201, Upper: 300},
	{ID: 8, Lower: 301, Upper: 500},
	{ID: 9, Lower: 501, Upper: math.Inf(1)},
}

// Bands returns a copy of the segmentation table in ascending order.
func Bands() []SizeBand {
	out := make([]SizeBand, len(bands))
	copy(out, bands)
	return out
}

// BandFor returns the band containing the given size. The second return
// value is false for non-positive sizes, which are not segmentable.
// Fractional sizes between band edges (e.g. 30.5) round down to the lower
// band so the table stays gap-free.
func BandFor(size float64) (SizeBand, bool) {
	if size <= 0 {
		return SizeBand{}, false
	}
	for _, b := range bands {
		if b.contains(size) {
			return b, true
		}
	}
	// Sits in the gap between an upper bound and the next integer lower
	// bound; assign to the band below.
	for i := len(bands) - 1; i >= 0; i-- {
		if size >= bands[i].Lower {
			return bands[i], true
		}
	}
	return bands[0], true
}

// Segmentation is the result of splitting a listing set into size bands.
// Unsized counts the listings excluded for missing or non-positive size;
// they are reported, not silently dropped.
type Segmentation struct {
	ByBand  map[int][]models.Listing
	Unsized int
}

// Segment assigns every listing with a positive size to its unique band.
func Segment(listings []models.Listing) Segmentation {
	seg := Segmentation{ByBand: make(map[int][]models.Listing)}
	for _, l := range listings {
		band, ok := BandFor(l.SizeM2)
		if !ok {
			seg.Unsized++
			continue
		}
		seg.ByBand[band.ID] = append(seg.ByBand[band.ID], l)
	}
	return seg
}

// ExpandSizeRange widens a requested size range to the union of all bands it
// overlaps, so a fetch covers complete band populations and later narrower
// searches can be served from the cached dataset. A bound that expands to
// the edge of the table comes back nil: the bottom band's lower bound 0 and
// the top band's infinite upper bound both mean "unbounded", and recording
// them as concrete values would make an unbounded follow-up search look
// broader than the recorded one and miss the cache.
func ExpandSizeRange(sizeMin, sizeMax *float64) (*float64, *float64) {
	if sizeMin == nil && sizeMax == nil {
		return nil, nil
	}

	lo := 0.0
	if sizeMin != nil {
		lo = *sizeMin
	}
	hi := math.Inf(1)
	if sizeMax != nil {
		hi = *sizeMax
	}

	expandedLo := math.Inf(1)
	expandedHi := math.Inf(-1)
	for _, b := range bands {
		if b.Upper < lo || b.Lower > hi {
			continue
		}
		expandedLo = math.Min(expandedLo, b.Lower)
		expandedHi = math.Max(expandedHi, b.Upper)
	}
	if math.IsInf(expandedLo, 1) {
		// No overlapping band; keep the caller's range as-is.
		return sizeMin, sizeMax
	}

	var outMin, outMax *float64
	if expandedLo > 0 {
		outMin = &expandedLo
	}
	if !math.IsInf(expandedHi, 1) {
		outMax = &expandedHi
	}
	return outMin, outMax
}
