package market

import (
	"testing"

	"github.com/dkalmar/homescope/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingAt builds a 1 m2 listing so price equals price per m2.
func listingAt(id string, pricePerM2 float64) models.Listing {
	return models.Listing{ID: id, Price: pricePerM2, SizeM2: 1}
}

func TestComputeStats_KnownValues(t *testing.T) {
	listings := []models.Listing{
		listingAt("a", 100),
		listingAt("b", 120),
		listingAt("c", 140),
	}

	stats := ComputeStats(2, listings)
	require.True(t, stats.Known)
	assert.Equal(t, 3, stats.SampleSize)
	assert.InDelta(t, 120, stats.Mean, 1e-9)
	assert.InDelta(t, 120, stats.Median, 1e-9)
	// Population standard deviation of {100, 120, 140}.
	assert.InDelta(t, 16.3299, stats.StdDev, 0.001)
	assert.InDelta(t, 100, stats.Min, 1e-9)
	assert.InDelta(t, 140, stats.Max, 1e-9)
}

func TestComputeStats_EvenCountMedian(t *testing.T) {
	listings := []models.Listing{
		listingAt("a", 100),
		listingAt("b", 110),
		listingAt("c", 130),
		listingAt("d", 200),
	}

	stats := ComputeStats(0, listings)
	assert.InDelta(t, 120, stats.Median, 1e-9)
}

func TestComputeStats_SingleSampleHasZeroStdDev(t *testing.T) {
	stats := ComputeStats(1, []models.Listing{listingAt("a", 500_000)})
	require.True(t, stats.Known)
	assert.Equal(t, 1, stats.SampleSize)
	assert.InDelta(t, 500_000, stats.Mean, 1e-9)
	assert.InDelta(t, 500_000, stats.Median, 1e-9)
	assert.Zero(t, stats.StdDev)
}

func TestComputeStats_EmptyBandIsUnknown(t *testing.T) {
	stats := ComputeStats(4, nil)
	assert.False(t, stats.Known)
	assert.Zero(t, stats.SampleSize)
}

func TestComputeStats_SkipsListingsWithoutUnitPrice(t *testing.T) {
	listings := []models.Listing{
		listingAt("a", 100),
		{ID: "b", Price: 30_000_000, SizeM2: 0},
	}

	stats := ComputeStats(0, listings)
	assert.Equal(t, 1, stats.SampleSize)
	assert.InDelta(t, 100, stats.Mean, 1e-9)
}

func TestComputeAllStats_IncludesEmptyBands(t *testing.T) {
	seg := Segment([]models.Listing{
		{ID: "a", Price: 30_000_000, SizeM2: 60},
	})

	all := ComputeAllStats(seg)
	require.Len(t, all, 10)
	assert.True(t, all[2].Known)
	assert.False(t, all[0].Known)
	assert.False(t, all[9].Known)
}
