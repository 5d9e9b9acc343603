package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerpParity/internal/domain/models"
)

func analysis(id, typ string, defiVol, corr float64) models.AssetAnalysis {
	return models.AssetAnalysis{
		AssetID:          id,
		AssetType:        typ,
		MeanDeFiVolume:   models.DefinedStat(defiVol),
		MeanTradFiVolume: models.DefinedStat(defiVol * 10),
		Price: models.PriceComparisonResult{
			AssetID:     id,
			PearsonR:    models.DefinedStat(corr),
			OverlapDays: 30,
		},
		OverlapDays: 30,
	}
}

func TestAggregateByTypeRoundTripTotals(t *testing.T) {
	in := []models.AssetAnalysis{
		analysis("BTC", "Crypto Coin", 1000, 0.9),
		analysis("ETH", "Crypto Coin", 600, 0.7),
		analysis("NVDA", "Traditional Equity", 200, 0.5),
	}
	out := AggregateByType(in)
	require.Len(t, out, 2)

	// Ordered by total DeFi volume descending.
	crypto := out[0]
	assert.Equal(t, "Crypto Coin", crypto.AssetType)
	assert.Equal(t, 2, crypto.AssetCount)
	// No silent drops: the total equals the raw sum of the inputs.
	assert.InDelta(t, 1600.0, crypto.TotalDeFiVolume, 1e-9)
	assert.InDelta(t, 16000.0, crypto.TotalTradFiVolume, 1e-9)
	mc, ok := crypto.MeanCorrelation.Float()
	require.True(t, ok)
	assert.InDelta(t, 0.8, mc, 1e-9)

	equity := out[1]
	assert.Equal(t, "Traditional Equity", equity.AssetType)
	assert.Equal(t, 1, equity.AssetCount)
	assert.InDelta(t, 200.0, equity.TotalDeFiVolume, 1e-9)
}

func TestAggregateByTypeSkipsUndefinedStatistics(t *testing.T) {
	noOverlap := models.AssetAnalysis{
		AssetID:          "GHOST",
		AssetType:        "Crypto Coin",
		MeanDeFiVolume:   models.UndefinedStat(),
		MeanTradFiVolume: models.UndefinedStat(),
		Price: models.PriceComparisonResult{
			AssetID:  "GHOST",
			PearsonR: models.UndefinedStat(),
		},
	}
	out := AggregateByType([]models.AssetAnalysis{analysis("BTC", "Crypto Coin", 1000, 0.9), noOverlap})
	require.Len(t, out, 1)

	// The undefined asset still counts, but contributes nothing numeric.
	assert.Equal(t, 2, out[0].AssetCount)
	assert.InDelta(t, 1000.0, out[0].TotalDeFiVolume, 1e-9)
	mc, ok := out[0].MeanCorrelation.Float()
	require.True(t, ok)
	assert.InDelta(t, 0.9, mc, 1e-9)
}

func TestAggregateByTypeAllUndefinedMeanIsUndefined(t *testing.T) {
	a := models.AssetAnalysis{AssetID: "X", AssetType: "Traditional Commodity"}
	out := AggregateByType([]models.AssetAnalysis{a})
	require.Len(t, out, 1)
	assert.False(t, out[0].MeanCorrelation.Valid)
	assert.False(t, out[0].MeanOverlapDays.Valid)
	assert.Zero(t, out[0].TotalDeFiVolume)
}

func TestAggregateByTypeDeterministicOrder(t *testing.T) {
	in := []models.AssetAnalysis{
		analysis("A", "TypeB", 100, 0.5),
		analysis("B", "TypeA", 100, 0.5),
		analysis("C", "TypeC", 900, 0.5),
	}
	out := AggregateByType(in)
	require.Len(t, out, 3)
	assert.Equal(t, "TypeC", out[0].AssetType)
	// Equal volumes tie-break by asset type ascending.
	assert.Equal(t, "TypeA", out[1].AssetType)
	assert.Equal(t, "TypeB", out[2].AssetType)

	again := AggregateByType(in)
	assert.Equal(t, out, again)
}

func TestAggregateByTypeCountsAnomalousDays(t *testing.T) {
	a := analysis("BTC", "Crypto Coin", 1000, 0.9)
	a.DeFiAnomalies = []models.AnomalyResult{
		{AssetID: "BTC", IsAnomalous: true},
		{AssetID: "BTC", IsAnomalous: false},
		{AssetID: "BTC", IsAnomalous: true},
	}
	out := AggregateByType([]models.AssetAnalysis{a})
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].AnomalousDays)
}

func TestMeanOverlapVolumes(t *testing.T) {
	a := volumeSeries("BTC", models.SourceDeFi, "2025-01-01", []float64{100, 200, 300})
	b := volumeSeries("BTC", models.SourceTradFi, "2025-01-02", []float64{10, 20})

	defi, tradfi, days := MeanOverlapVolumes(a, b)
	assert.Equal(t, 2, days)
	dv, ok := defi.Float()
	require.True(t, ok)
	assert.InDelta(t, 250.0, dv, 1e-9)
	tv, ok := tradfi.Float()
	require.True(t, ok)
	assert.InDelta(t, 15.0, tv, 1e-9)

	_, _, days = MeanOverlapVolumes(a, volumeSeries("BTC", models.SourceTradFi, "2026-01-01", []float64{1}))
	assert.Zero(t, days)
}
