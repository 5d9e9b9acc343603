package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"PerpParity/internal/domain/models"
)

// ExcelWriter renders the full result set as one workbook with Summary,
// Cross Correlation, Price Comparison, and Anomalies sheets.
type ExcelWriter struct {
	dir    string
	labels Labels
}

// NewExcelWriter creates an Excel writer rooted at dir.
func NewExcelWriter(dir string, labels Labels) *ExcelWriter {
	return &ExcelWriter{dir: dir, labels: labels}
}

// Write renders the workbook and returns its path.
func (w *ExcelWriter) Write(analyses []models.AssetAnalysis, summaries []models.AssetTypeSummary) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), "Summary")
	for _, name := range []string{"Cross Correlation", "Price Comparison", "Anomalies"} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("new sheet: %w", err)
		}
	}

	summaryRows := [][]string{summaryHeader(w.labels)}
	for _, s := range summaries {
		summaryRows = append(summaryRows, summaryRow(s))
	}
	if err := writeSheet(f, "Summary", summaryRows); err != nil {
		return "", err
	}

	crossCorr := [][]string{crossCorrHeader(w.labels)}
	prices := [][]string{priceHeader()}
	anomalies := [][]string{anomalyHeader()}
	for _, a := range analyses {
		crossCorr = append(crossCorr, crossCorrRow(a))
		prices = append(prices, priceRow(a))
		anomalies = append(anomalies, anomalyRows(a)...)
	}
	if err := writeSheet(f, "Cross Correlation", crossCorr); err != nil {
		return "", err
	}
	if err := writeSheet(f, "Price Comparison", prices); err != nil {
		return "", err
	}
	if err := writeSheet(f, "Anomalies", anomalies); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, "analysis.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
