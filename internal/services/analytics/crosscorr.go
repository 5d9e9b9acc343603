package analytics

import (
	"math"
	"time"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

// CrossCorrelate sweeps integer lags in [-MaxLag, +MaxLag] between two
// notional-volume series restricted to their date overlap. The overlap is
// the intersection of dates present in both series regardless of
// trading-window status: the statistic needs synchronized calendars, and
// legitimate zero-volume days carry information here.
//
// Lag k pairs a[i+k] with b[i] over the aligned overlap, so a negative peak
// lag means series a's (DeFi) past best explains series b's (TradFi)
// present: DeFi leads. Positive means TradFi leads; zero, simultaneous.
//
// A lag aligning fewer than MinLagPoints pairs gets an undefined
// coefficient; the rule is enforced uniformly across lags. The peak is the
// defined lag maximizing |r|, ties broken toward the lag closest to zero and
// otherwise toward the earliest lag in ascending order. When the overlap is
// shorter than MinOverlapDays, or no lag is defined, the result carries
// interpretation LeadLagUndefined with an undefined peak.
func CrossCorrelate(a, b models.AssetSeries, cfg Config) (models.CrossCorrelationResult, error) {
	if err := ValidateSeries(a); err != nil {
		return models.CrossCorrelationResult{}, err
	}
	if err := ValidateSeries(b); err != nil {
		return models.CrossCorrelationResult{}, err
	}
	cfg = cfg.withDefaults()

	res := models.CrossCorrelationResult{
		AssetID:         a.AssetID,
		MaxLag:          cfg.MaxLag,
		ByLag:           make(map[int]models.Stat, 2*cfg.MaxLag+1),
		PeakCorrelation: models.UndefinedStat(),
		Interpretation:  models.LeadLagUndefined,
	}
	for k := -cfg.MaxLag; k <= cfg.MaxLag; k++ {
		res.ByLag[k] = models.UndefinedStat()
	}

	dates := overlapDates(a, b)
	res.OverlapDays = len(dates)
	if len(dates) < cfg.MinOverlapDays {
		return res, nil
	}

	av := volumesOn(a, dates)
	bv := volumesOn(b, dates)

	bestAbs := math.Inf(-1)
	found := false
	for k := -cfg.MaxLag; k <= cfg.MaxLag; k++ {
		xs, ys := lagPairs(av, bv, k)
		if len(xs) < cfg.MinLagPoints {
			continue
		}
		r := pearson(xs, ys)
		res.ByLag[k] = r
		if !r.Valid {
			continue
		}
		abs := math.Abs(r.Value)
		switch {
		case abs > bestAbs:
			bestAbs, res.PeakLag, res.PeakCorrelation, found = abs, k, r, true
		case abs == bestAbs && absInt(k) < absInt(res.PeakLag):
			res.PeakLag, res.PeakCorrelation = k, r
		}
	}
	if found {
		res.Interpretation = models.InterpretLag(res.PeakLag)
	}
	return res, nil
}

// volumesOn extracts notional volumes for the given dates, in order.
func volumesOn(s models.AssetSeries, dates []time.Time) []float64 {
	byDate := pointsByDate(s)
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = byDate[util.Day(d)].NotionalVolume
	}
	return out
}

// lagPairs aligns a[i+k] with b[i] for every index where both exist.
func lagPairs(a, b []float64, k int) (xs, ys []float64) {
	for i := range b {
		j := i + k
		if j < 0 || j >= len(a) {
			continue
		}
		xs = append(xs, a[j])
		ys = append(ys, b[i])
	}
	return xs, ys
}

func absInt(k int) int {
	if k < 0 {
		return -k
	}
	return k
}
