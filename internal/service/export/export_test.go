package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerpParity/internal/domain/models"
)

var testLabels = Labels{Onchain: "DeFi", Offchain: "TradFi"}

func sampleAnalysis() models.AssetAnalysis {
	return models.AssetAnalysis{
		AssetID:   "BTC",
		AssetType: "Crypto Coin",
		DeFiAnomalies: []models.AnomalyResult{
			{
				AssetID:        "BTC",
				Source:         models.SourceDeFi,
				Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				ObservedVolume: 500,
				WindowMean:     100,
				WindowStddev:   10,
				TScore:         models.DefinedStat(69.28),
				IsAnomalous:    true,
			},
			{
				AssetID:     "BTC",
				Source:      models.SourceDeFi,
				Date:        time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
				TScore:      models.DefinedStat(0.5),
				IsAnomalous: false,
			},
		},
		CrossCorrelation: models.CrossCorrelationResult{
			AssetID:         "BTC",
			PeakLag:         -3,
			PeakCorrelation: models.DefinedStat(0.82),
			Interpretation:  models.DeFiLeads,
		},
		Price: models.PriceComparisonResult{
			AssetID:       "BTC",
			PearsonR:      models.DefinedStat(0.95),
			TrackingError: models.UndefinedStat(),
			OverlapDays:   30,
		},
		MeanDeFiVolume:   models.DefinedStat(1000),
		MeanTradFiVolume: models.UndefinedStat(),
		OverlapDays:      30,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterLabeledHeaders(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, Labels{Onchain: "Perps", Offchain: "Spot"})

	_, err := w.Write([]models.AssetAnalysis{sampleAnalysis()}, nil)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "cross_correlation.csv"))
	require.NotEmpty(t, rows)
	assert.Contains(t, rows[0], "Mean Perps Volume")
	assert.Contains(t, rows[0], "Mean Spot Volume")
	assert.Contains(t, rows[0], "Perps Anomalous Days")
}

func TestCSVWriterUndefinedStatsAreEmptyCells(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, testLabels)

	_, err := w.Write([]models.AssetAnalysis{sampleAnalysis()}, nil)
	require.NoError(t, err)

	cc := readCSV(t, filepath.Join(dir, "cross_correlation.csv"))
	require.Len(t, cc, 2)
	ccCols := columns(cc[0], cc[1])
	assert.Equal(t, "1000", ccCols["Mean DeFi Volume"])
	assert.Empty(t, ccCols["Mean TradFi Volume"])
	assert.Equal(t, "-3", ccCols["Peak Lag"])
	assert.Equal(t, "defi_leads", ccCols["Lead/Lag"])

	prices := readCSV(t, filepath.Join(dir, "price_comparison.csv"))
	require.Len(t, prices, 2)
	pCols := columns(prices[0], prices[1])
	assert.Equal(t, "0.95", pCols["Price Correlation"])
	assert.Empty(t, pCols["Tracking Error"])
	assert.Equal(t, "30", pCols["Overlap Days"])
}

func columns(header, row []string) map[string]string {
	cols := make(map[string]string, len(header))
	for i, h := range header {
		cols[h] = row[i]
	}
	return cols
}

func TestCSVWriterAnomaliesOnlyFlaggedRows(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, testLabels)

	_, err := w.Write([]models.AssetAnalysis{sampleAnalysis()}, nil)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "anomalies.csv"))
	require.Len(t, rows, 2) // header + the one flagged day
	assert.Equal(t, "BTC", rows[1][0])
	assert.Equal(t, "defi", rows[1][1])
	assert.Equal(t, "2025-03-10", rows[1][2])
}

func TestCSVWriterSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, testLabels)

	summaries := []models.AssetTypeSummary{
		{
			AssetType:         "Crypto Coin",
			AssetCount:        2,
			TotalDeFiVolume:   1600,
			TotalTradFiVolume: 16000,
			MeanCorrelation:   models.DefinedStat(0.8),
			MeanOverlapDays:   models.UndefinedStat(),
			AnomalousDays:     3,
		},
	}
	_, err := w.Write(nil, summaries)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "summary.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Crypto Coin", "2", "1600", "16000", "0.8", "", "3"}, rows[1])
}

func TestExcelWriterProducesWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(dir, testLabels)

	path, err := w.Write([]models.AssetAnalysis{sampleAnalysis()}, []models.AssetTypeSummary{
		{AssetType: "Crypto Coin", AssetCount: 1, TotalDeFiVolume: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis.xlsx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
