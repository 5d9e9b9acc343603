package models

import "time"

// AnomalyResult is one evaluated trading day from the rolling t-test.
// WindowDates are the preceding trading days the reference window was built
// from, ascending. TScore is undefined when the window stddev is zero.
type AnomalyResult struct {
	AssetID        string      `json:"asset_id"`
	Source         SourceTag   `json:"source"`
	Date           time.Time   `json:"date"`
	ObservedVolume float64     `json:"observed_volume"`
	WindowMean     float64     `json:"window_mean"`
	WindowStddev   float64     `json:"window_stddev"`
	TScore         Stat        `json:"t_score"`
	IsAnomalous    bool        `json:"is_anomalous"`
	WindowDates    []time.Time `json:"window_dates"`
}

// LeadLag is the sign interpretation of the peak cross-correlation lag.
type LeadLag string

const (
	// DeFiLeads: the DeFi series' past best explains the TradFi present.
	DeFiLeads LeadLag = "defi_leads"
	// TradFiLeads: the TradFi series' past best explains the DeFi present.
	TradFiLeads LeadLag = "tradfi_leads"
	// Simultaneous: peak at lag zero.
	Simultaneous LeadLag = "simultaneous"
	// LeadLagUndefined: no lag had enough aligned points for a coefficient.
	LeadLagUndefined LeadLag = "undefined"
)

// InterpretLag maps a peak lag sign to its lead/lag reading. Negative lags
// mean the DeFi side leads; see CrossCorrelate for the pairing convention.
func InterpretLag(peak int) LeadLag {
	switch {
	case peak < 0:
		return DeFiLeads
	case peak > 0:
		return TradFiLeads
	default:
		return Simultaneous
	}
}

// CrossCorrelationResult is the full lag sweep for one asset. ByLag holds a
// coefficient for every lag in [-MaxLag, +MaxLag]; lags with fewer aligned
// points than the configured minimum are undefined. When no lag is defined,
// Interpretation is LeadLagUndefined and PeakCorrelation is undefined.
type CrossCorrelationResult struct {
	AssetID         string       `json:"asset_id"`
	MaxLag          int          `json:"max_lag"`
	ByLag           map[int]Stat `json:"correlation_by_lag"`
	PeakLag         int          `json:"peak_lag"`
	PeakCorrelation Stat         `json:"peak_correlation"`
	Interpretation  LeadLag      `json:"interpretation"`
	OverlapDays     int          `json:"overlap_days"`
}

// PriceComparisonResult holds co-movement and divergence statistics over the
// date overlap where both closes are present and positive. All statistics
// are undefined when OverlapDays is zero.
type PriceComparisonResult struct {
	AssetID           string `json:"asset_id"`
	PearsonR          Stat   `json:"pearson_r"`
	TrackingError     Stat   `json:"tracking_error"`
	MeanPctDifference Stat   `json:"mean_pct_difference"`
	OverlapDays       int    `json:"overlap_day_count"`
}

// AssetAnalysis bundles every per-asset result for aggregation and export.
// MeanDeFiVolume / MeanTradFiVolume are mean daily notional volumes over the
// two series' date overlap, undefined when the overlap is empty.
type AssetAnalysis struct {
	AssetID          string                 `json:"asset_id"`
	AssetType        string                 `json:"asset_type"`
	DeFiAnomalies    []AnomalyResult        `json:"defi_anomalies"`
	TradFiAnomalies  []AnomalyResult        `json:"tradfi_anomalies"`
	CrossCorrelation CrossCorrelationResult `json:"cross_correlation"`
	Price            PriceComparisonResult  `json:"price"`
	MeanDeFiVolume   Stat                   `json:"mean_defi_volume"`
	MeanTradFiVolume Stat                   `json:"mean_tradfi_volume"`
	OverlapDays      int                    `json:"overlap_days"`
}

// FlaggedCount returns how many DeFi-side days were flagged anomalous.
func (a AssetAnalysis) FlaggedCount() int {
	n := 0
	for _, r := range a.DeFiAnomalies {
		if r.IsAnomalous {
			n++
		}
	}
	return n
}

// AssetTypeSummary is the per-asset-type rollup. Total volumes sum each
// asset's mean daily notional over its overlap; MeanCorrelation averages
// defined price correlations only. Rows are ordered by TotalDeFiVolume
// descending, ties by AssetType ascending.
type AssetTypeSummary struct {
	AssetType         string  `json:"asset_type"`
	AssetCount        int     `json:"asset_count"`
	TotalDeFiVolume   float64 `json:"total_defi_volume"`
	TotalTradFiVolume float64 `json:"total_tradfi_volume"`
	MeanCorrelation   Stat    `json:"mean_correlation"`
	MeanOverlapDays   Stat    `json:"mean_overlap_days"`
	AnomalousDays     int     `json:"anomalous_days"`
}

// VolumeAlert is the Kafka payload for a flagged anomaly, consumed by the
// downstream news-research tooling.
type VolumeAlert struct {
	AssetID        string    `json:"asset_id"`
	AssetType      string    `json:"asset_type"`
	Source         SourceTag `json:"source"`
	Date           time.Time `json:"date"`
	ObservedVolume float64   `json:"observed_volume"`
	WindowMean     float64   `json:"window_mean"`
	TScore         float64   `json:"t_score"`
	Direction      string    `json:"direction"` // "spike" or "drought"
}
