package analytics

import (
	"math"
	"time"

	"PerpParity/internal/domain/models"
)

// DetectAnomalies runs the rolling t-test over a series' trading days. For
// each trading day with at least WindowSize preceding trading days, the
// reference window is those WindowSize days' notional volumes (trading days,
// not calendar days) and
//
//	t = (observed - mean) / (stddev / sqrt(windowSize))
//
// with the sample standard deviation (divisor windowSize-1). A day is
// flagged when |t| >= ConfidenceThreshold; positive t is a volume spike,
// negative a drought. A zero-stddev window yields an undefined t score and
// no flag rather than a division artifact.
//
// The first WindowSize trading days produce no result; that empty head is
// the expected insufficient-history boundary, not an error. Malformed input
// returns a *SeriesError.
func DetectAnomalies(s models.AssetSeries, cfg Config) ([]models.AnomalyResult, error) {
	if err := ValidateSeries(s); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	w := ResolveTradingWindow(s)
	byDate := pointsByDate(s)
	vols := make([]float64, w.Len())
	for i, d := range w.Dates {
		vols[i] = byDate[d].NotionalVolume
	}

	n := cfg.WindowSize
	results := make([]models.AnomalyResult, 0, max(0, len(vols)-n))
	for i := n; i < len(vols); i++ {
		window := vols[i-n : i]
		mu := mean(window)
		sd := sampleStddev(window, mu)

		res := models.AnomalyResult{
			AssetID:        s.AssetID,
			Source:         s.Source,
			Date:           w.Dates[i],
			ObservedVolume: vols[i],
			WindowMean:     mu,
			WindowStddev:   sd,
			TScore:         models.UndefinedStat(),
			WindowDates:    append([]time.Time(nil), w.Dates[i-n:i]...),
		}
		if sd > 0 {
			t := (vols[i] - mu) / (sd / math.Sqrt(float64(n)))
			res.TScore = models.DefinedStat(t)
			res.IsAnomalous = math.Abs(t) >= cfg.ConfidenceThreshold
		}
		results = append(results, res)
	}
	return results, nil
}
