// Package export renders analysis results as CSV files and an Excel
// workbook. Column layouts are shared between the two writers so the
// artifacts stay in lockstep.
package export

import (
	"fmt"
	"strconv"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/config"
	"PerpParity/pkg/util"
)

// Labels names the two venues on exported headers. Display strings only;
// never used for computation.
type Labels struct {
	Onchain  string
	Offchain string
}

// LabelsFromConfig converts a config label set.
func LabelsFromConfig(ls config.LabelSet) Labels {
	return Labels{Onchain: ls.Onchain, Offchain: ls.Offchain}
}

func summaryHeader(l Labels) []string {
	return []string{
		"Asset Type",
		"Assets",
		fmt.Sprintf("Total %s Volume", l.Onchain),
		fmt.Sprintf("Total %s Volume", l.Offchain),
		"Mean Correlation",
		"Mean Overlap Days",
		"Anomalous Days",
	}
}

func summaryRow(s models.AssetTypeSummary) []string {
	return []string{
		s.AssetType,
		strconv.Itoa(s.AssetCount),
		formatFloat(s.TotalDeFiVolume),
		formatFloat(s.TotalTradFiVolume),
		formatStat(s.MeanCorrelation),
		formatStat(s.MeanOverlapDays),
		strconv.Itoa(s.AnomalousDays),
	}
}

func crossCorrHeader(l Labels) []string {
	return []string{
		"Asset",
		"Type",
		"Overlap Days",
		fmt.Sprintf("Mean %s Volume", l.Onchain),
		fmt.Sprintf("Mean %s Volume", l.Offchain),
		"Peak Lag",
		"Peak Correlation",
		"Lead/Lag",
		fmt.Sprintf("%s Anomalous Days", l.Onchain),
		fmt.Sprintf("%s Anomalous Days", l.Offchain),
	}
}

func crossCorrRow(a models.AssetAnalysis) []string {
	peakLag := ""
	if a.CrossCorrelation.PeakCorrelation.Valid {
		peakLag = strconv.Itoa(a.CrossCorrelation.PeakLag)
	}
	return []string{
		a.AssetID,
		a.AssetType,
		strconv.Itoa(a.OverlapDays),
		formatStat(a.MeanDeFiVolume),
		formatStat(a.MeanTradFiVolume),
		peakLag,
		formatStat(a.CrossCorrelation.PeakCorrelation),
		string(a.CrossCorrelation.Interpretation),
		strconv.Itoa(countFlagged(a.DeFiAnomalies)),
		strconv.Itoa(countFlagged(a.TradFiAnomalies)),
	}
}

func priceHeader() []string {
	return []string{
		"Asset",
		"Type",
		"Overlap Days",
		"Price Correlation",
		"Tracking Error",
		"Mean Pct Difference",
	}
}

func priceRow(a models.AssetAnalysis) []string {
	return []string{
		a.AssetID,
		a.AssetType,
		strconv.Itoa(a.Price.OverlapDays),
		formatStat(a.Price.PearsonR),
		formatStat(a.Price.TrackingError),
		formatStat(a.Price.MeanPctDifference),
	}
}

func anomalyHeader() []string {
	return []string{
		"Asset",
		"Source",
		"Date",
		"Observed Volume",
		"Window Mean",
		"Window Stddev",
		"T Score",
	}
}

func anomalyRows(a models.AssetAnalysis) [][]string {
	var rows [][]string
	for _, rs := range [][]models.AnomalyResult{a.DeFiAnomalies, a.TradFiAnomalies} {
		for _, r := range rs {
			if !r.IsAnomalous {
				continue
			}
			rows = append(rows, []string{
				r.AssetID,
				string(r.Source),
				util.FormatDay(r.Date),
				formatFloat(r.ObservedVolume),
				formatFloat(r.WindowMean),
				formatFloat(r.WindowStddev),
				formatStat(r.TScore),
			})
		}
	}
	return rows
}

func countFlagged(rs []models.AnomalyResult) int {
	n := 0
	for _, r := range rs {
		if r.IsAnomalous {
			n++
		}
	}
	return n
}

// formatStat renders an undefined statistic as an empty cell, never as a
// zero or sentinel.
func formatStat(s models.Stat) string {
	if !s.Valid {
		return ""
	}
	return formatFloat(s.Value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
