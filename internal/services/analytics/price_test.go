package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerpParity/internal/domain/models"
)

func TestComparePricesKnownStatistics(t *testing.T) {
	a := priceSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{100, 110, 120, 130})
	b := priceSeries("BTC", models.SourceTradFi, "2025-01-01", []float64{100, 100, 100, 100})

	res, err := ComparePrices(a, b)
	require.NoError(t, err)

	assert.Equal(t, 4, res.OverlapDays)
	// pct differences: 0, 0.10, 0.20, 0.30 -> mean 0.15
	m, ok := res.MeanPctDifference.Float()
	require.True(t, ok)
	assert.InDelta(t, 0.15, m, 1e-9)
	te, ok := res.TrackingError.Float()
	require.True(t, ok)
	assert.InDelta(t, 0.1290994, te, 1e-6)
	// Constant b has zero variance: Pearson is undefined, not fabricated.
	assert.False(t, res.PearsonR.Valid)
}

func TestComparePricesPerfectTracking(t *testing.T) {
	closes := []float64{100, 105, 98, 112, 107}
	a := priceSeries("ETH", models.SourceDeFi, "2025-01-01", closes)
	b := priceSeries("ETH", models.SourceTradFi, "2025-01-01", closes)

	res, err := ComparePrices(a, b)
	require.NoError(t, err)

	r, ok := res.PearsonR.Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)
	// A legitimate zero tracking error is defined, unlike the empty-overlap case.
	te, ok := res.TrackingError.Float()
	require.True(t, ok)
	assert.Zero(t, te)
}

func TestComparePricesEmptyOverlapAllUndefined(t *testing.T) {
	a := priceSeries("SOL", models.SourceDeFi, "2025-01-01", []float64{100, 101})
	b := priceSeries("SOL", models.SourceTradFi, "2025-06-01", []float64{100, 101})

	res, err := ComparePrices(a, b)
	require.NoError(t, err)

	assert.Equal(t, 0, res.OverlapDays)
	assert.False(t, res.PearsonR.Valid)
	assert.False(t, res.TrackingError.Valid)
	assert.False(t, res.MeanPctDifference.Valid)
}

func TestComparePricesSkipsNonPositiveCloses(t *testing.T) {
	a := priceSeries("ADA", models.SourceDeFi, "2025-01-01", []float64{100, 0, 102, 103})
	b := priceSeries("ADA", models.SourceTradFi, "2025-01-01", []float64{100, 101, 102, 103})

	res, err := ComparePrices(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, res.OverlapDays)
}

func TestComparePricesSingleDayOverlap(t *testing.T) {
	a := priceSeries("DOT", models.SourceDeFi, "2025-01-01", []float64{110})
	b := priceSeries("DOT", models.SourceTradFi, "2025-01-01", []float64{100})

	res, err := ComparePrices(a, b)
	require.NoError(t, err)

	assert.Equal(t, 1, res.OverlapDays)
	m, ok := res.MeanPctDifference.Float()
	require.True(t, ok)
	assert.InDelta(t, 0.10, m, 1e-9)
	assert.False(t, res.PearsonR.Valid)
	assert.False(t, res.TrackingError.Valid)
}
