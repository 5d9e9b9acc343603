package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

func TestResolveTradingWindowFiltersZeroVolume(t *testing.T) {
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{0, 0, 100, 0, 200, 300})
	w := ResolveTradingWindow(s)

	require.Equal(t, 3, w.Len())
	assert.Equal(t, day("2025-01-03"), w.Dates[0])
	assert.Equal(t, day("2025-01-05"), w.Dates[1])
	assert.Equal(t, day("2025-01-06"), w.Dates[2])
}

func TestResolveTradingWindowExcludesPreInception(t *testing.T) {
	s := volumeSeries("ETH", models.SourceTradFi, "2025-03-01", []float64{50, 60, 70})
	// Claim a later inception: earlier rows must drop out of the window.
	s.Inception = day("2025-03-02")
	s.Points[0].Date = day("2025-03-02")
	s.Points[1].Date = day("2025-03-03")
	s.Points[2].Date = day("2025-03-04")

	w := ResolveTradingWindow(s)
	require.Equal(t, 3, w.Len())
	for _, d := range w.Dates {
		assert.False(t, d.Before(day("2025-03-02")))
	}
}

// The window must always be a subsequence of the input dates with positive
// volume on or after inception.
func TestResolveTradingWindowSubsequenceProperty(t *testing.T) {
	s := volumeSeries("SOL", models.SourceDeFi, "2025-02-01", []float64{0, 10, 0, 20, 30, 0, 40})
	w := ResolveTradingWindow(s)

	inputDates := make(map[string]float64)
	for _, p := range s.Points {
		inputDates[util.FormatDay(p.Date)] = p.Volume
	}
	for _, d := range w.Dates {
		vol, ok := inputDates[util.FormatDay(d)]
		require.True(t, ok, "window date %s not in input", util.FormatDay(d))
		assert.Greater(t, vol, 0.0)
		assert.False(t, d.Before(util.Day(s.Inception)))
	}
}

func TestResolveTradingWindowEmptyInput(t *testing.T) {
	w := ResolveTradingWindow(models.AssetSeries{AssetID: "X", Source: models.SourceDeFi})
	assert.Zero(t, w.Len())
}
