package market

import (
	"math"
	"testing"

	"github.com/dkalmar/homescope/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBands_PartitionPositiveSizes(t *testing.T) {
	// Every positive size maps to exactly one band; probe band edges and
	// interior points across the whole table.
	sizes := []float64{0.5, 1, 30, 30.5, 31, 50, 51, 70, 71, 90, 91, 120, 121, 150, 151, 200, 201, 300, 301, 500, 501, 2000}
	for _, size := range sizes {
		band, ok := BandFor(size)
		require.True(t, ok, "size %.1f should be segmentable", size)

		count := 0
		for _, b := range Bands() {
			if size >= b.Lower && size <= b.Upper {
				count++
			}
		}
		if count == 0 {
			// Edge-gap sizes like 30.5 fall to the band below.
			assert.LessOrEqual(t, band.Lower, size, "size %.1f", size)
		} else {
			assert.Equal(t, 1, count, "size %.1f must be in exactly one band", size)
		}
	}
}

func TestBands_TableHasNoGapsOrOverlaps(t *testing.T) {
	all := Bands()
	require.Len(t, all, 10)
	assert.Equal(t, 0.0, all[0].Lower)
	assert.True(t, math.IsInf(all[len(all)-1].Upper, 1))

	for i := 1; i < len(all); i++ {
		assert.Equal(t, all[i-1].Upper+1, all[i].Lower,
			"band %d must start right above band %d", i, i-1)
	}
}

func TestBandFor_RejectsNonPositive(t *testing.T) {
	_, ok := BandFor(0)
	assert.False(t, ok)
	_, ok = BandFor(-10)
	assert.False(t, ok)
}

func TestBandLabel(t *testing.T) {
	band, _ := BandFor(60)
	assert.Equal(t, "51-70 m2", band.Label())

	top, _ := BandFor(900)
	assert.Equal(t, "501+ m2", top.Label())
}

func TestSegment_AssignsAndCountsUnsized(t *testing.T) {
	listings := []models.Listing{
		{ID: "a", SizeM2: 45},
		{ID: "b", SizeM2: 48},
		{ID: "c", SizeM2: 65},
		{ID: "d", SizeM2: 0},
		{ID: "e", SizeM2: -5},
	}

	seg := Segment(listings)
	assert.Equal(t, 2, seg.Unsized)
	assert.Len(t, seg.ByBand[1], 2)
	assert.Len(t, seg.ByBand[2], 1)

	total := 0
	for _, ls := range seg.ByBand {
		total += len(ls)
	}
	assert.Equal(t, len(listings)-seg.Unsized, total)
}

func TestExpandSizeRange_CoversOverlappingBands(t *testing.T) {
	min, max := fp(40), fp(75)
	lo, hi := ExpandSizeRange(min, max)
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 31.0, *lo)
	assert.Equal(t, 90.0, *hi)
}

func TestExpandSizeRange_OpenEndedTop(t *testing.T) {
	lo, hi := ExpandSizeRange(fp(520), nil)
	require.NotNil(t, lo)
	assert.Equal(t, 501.0, *lo)
	assert.Nil(t, hi)
}

func TestExpandSizeRange_BottomBandMinStaysUnbounded(t *testing.T) {
	// A max-only range expands downward into band 0, whose lower bound 0
	// means unbounded. Returning a concrete 0 here would get recorded in
	// the ledger and make an identical min-unbounded follow-up search look
	// broader than the recorded one, so it would never reuse.
	lo, hi := ExpandSizeRange(nil, fp(40))
	assert.Nil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 50.0, *hi)
}

func TestExpandSizeRange_NoBoundsPassThrough(t *testing.T) {
	lo, hi := ExpandSizeRange(nil, nil)
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func fp(v float64) *float64 { return &v }
