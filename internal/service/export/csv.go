package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"PerpParity/internal/domain/models"
)

// CSVWriter writes the four result tables as CSV files under a target
// directory.
type CSVWriter struct {
	dir    string
	labels Labels
}

// NewCSVWriter creates a CSV writer rooted at dir.
func NewCSVWriter(dir string, labels Labels) *CSVWriter {
	return &CSVWriter{dir: dir, labels: labels}
}

// Write renders all four tables. Returns the written file paths.
func (w *CSVWriter) Write(analyses []models.AssetAnalysis, summaries []models.AssetTypeSummary) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	summaryRows := [][]string{summaryHeader(w.labels)}
	for _, s := range summaries {
		summaryRows = append(summaryRows, summaryRow(s))
	}

	crossCorr := [][]string{crossCorrHeader(w.labels)}
	prices := [][]string{priceHeader()}
	anomalies := [][]string{anomalyHeader()}
	for _, a := range analyses {
		crossCorr = append(crossCorr, crossCorrRow(a))
		prices = append(prices, priceRow(a))
		anomalies = append(anomalies, anomalyRows(a)...)
	}

	files := map[string][][]string{
		"summary.csv":           summaryRows,
		"cross_correlation.csv": crossCorr,
		"price_comparison.csv":  prices,
		"anomalies.csv":         anomalies,
	}

	paths := make([]string, 0, len(files))
	for _, name := range []string{"summary.csv", "cross_correlation.csv", "price_comparison.csv", "anomalies.csv"} {
		path := filepath.Join(w.dir, name)
		if err := writeCSV(path, files[name]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	return cw.Error()
}
