package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerpParity/internal/domain/models"
)

func TestDetectAnomaliesKnownTScore(t *testing.T) {
	// Window [90,100,110]: mean 100, sample stddev 10. Observed 150 gives
	// t = 50 / (10/sqrt(3)) ~ 8.66, anomalous at 4.303.
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{90, 100, 110, 150})
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, day("2025-01-04"), r.Date)
	assert.Equal(t, 150.0, r.ObservedVolume)
	assert.InDelta(t, 100.0, r.WindowMean, 1e-9)
	assert.InDelta(t, 10.0, r.WindowStddev, 1e-9)
	ts, ok := r.TScore.Float()
	require.True(t, ok)
	assert.InDelta(t, 8.660, ts, 0.001)
	assert.True(t, r.IsAnomalous)
	require.Len(t, r.WindowDates, 3)
	assert.Equal(t, day("2025-01-01"), r.WindowDates[0])
}

func TestDetectAnomaliesZeroStddevIsUndefined(t *testing.T) {
	// Window [100,100,100] observing 400: degenerate, not a division artifact.
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{100, 100, 100, 400})
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.False(t, got[0].TScore.Valid)
	assert.False(t, got[0].IsAnomalous)
}

func TestDetectAnomaliesConstantSeriesNeverFlags(t *testing.T) {
	vols := make([]float64, 20)
	for i := range vols {
		vols[i] = 500
	}
	got, err := DetectAnomalies(volumeSeries("ETH", models.SourceTradFi, "2025-01-01", vols), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 17)
	for _, r := range got {
		assert.False(t, r.TScore.Valid)
		assert.False(t, r.IsAnomalous)
	}
}

func TestDetectAnomaliesInsufficientHistoryHead(t *testing.T) {
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{90, 100, 110})
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetectAnomaliesWindowSkipsNonTradingDays(t *testing.T) {
	// The zero-volume day is not a trading day: the reference window must be
	// the three preceding trading days, not calendar days.
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{90, 0, 100, 110, 150})
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.InDelta(t, 100.0, r.WindowMean, 1e-9)
	assert.Equal(t, 150.0, r.ObservedVolume)
	require.Len(t, r.WindowDates, 3)
	assert.Equal(t, day("2025-01-01"), r.WindowDates[0])
	assert.Equal(t, day("2025-01-03"), r.WindowDates[1])
	assert.Equal(t, day("2025-01-04"), r.WindowDates[2])
}

func TestDetectAnomaliesPreLaunchZeroRows(t *testing.T) {
	// Inception is the first recorded date, so a DeFi series stored with
	// explicit pre-launch zero-volume rows starts at those rows. They are
	// non-trading days excluded by the window, not a validation failure.
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{0, 0, 90, 100, 110, 150})
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, day("2025-01-06"), r.Date)
	assert.Equal(t, 150.0, r.ObservedVolume)
	assert.InDelta(t, 100.0, r.WindowMean, 1e-9)
	assert.True(t, r.IsAnomalous)
	require.Len(t, r.WindowDates, 3)
	assert.Equal(t, day("2025-01-03"), r.WindowDates[0])
}

func TestDetectAnomaliesDroughtHasNegativeTScore(t *testing.T) {
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{90, 100, 110, 20})
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)

	ts, ok := got[0].TScore.Float()
	require.True(t, ok)
	assert.Negative(t, ts)
	assert.True(t, got[0].IsAnomalous)
}

func TestDetectAnomaliesConfigurableThreshold(t *testing.T) {
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{90, 100, 110, 120})
	// t = 20/(10/sqrt(3)) ~ 3.46: inside the default bound, outside a 3.0 one.
	got, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsAnomalous)

	cfg := DefaultConfig()
	cfg.ConfidenceThreshold = 3.0
	got, err = DetectAnomalies(s, cfg)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsAnomalous)
}

func TestDetectAnomaliesIdempotent(t *testing.T) {
	s := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{90, 100, 110, 150, 95, 105})
	a, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	b, err := DetectAnomalies(s, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDetectAnomaliesRejectsMalformedInput(t *testing.T) {
	dup := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{10, 20})
	dup.Points[1].Date = dup.Points[0].Date
	_, err := DetectAnomalies(dup, DefaultConfig())
	var serr *SeriesError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "BTC", serr.AssetID)
	assert.Contains(t, serr.Error(), "duplicate date")

	neg := volumeSeries("ETH", models.SourceTradFi, "2025-01-01", []float64{10, 20})
	neg.Points[1].NotionalVolume = -5
	_, err = DetectAnomalies(neg, DefaultConfig())
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "negative volume")
}
