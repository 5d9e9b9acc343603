package analytics

import (
	"time"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

// ResolveTradingWindow returns the ordered set of valid trading days for a
// series: dates on or after the inception date whose volume is strictly
// positive. TradFi weekends and holidays are simply absent from the input
// and fall out naturally; DeFi pre-launch rows are present as explicit zero
// entries and are excluded here. An empty series yields an empty window.
//
// Downstream statistics walk this window rather than calendar days: a naive
// calendar window would mix non-trading zeros into rolling statistics and
// bias them toward zero.
func ResolveTradingWindow(s models.AssetSeries) models.TradingWindow {
	w := models.TradingWindow{AssetID: s.AssetID, Source: s.Source}
	inception := util.Day(s.Inception)
	for _, p := range s.Points {
		d := util.Day(p.Date)
		if !s.Inception.IsZero() && d.Before(inception) {
			continue
		}
		if p.Volume <= 0 {
			continue
		}
		w.Dates = append(w.Dates, d)
	}
	return w
}

// pointsByDate indexes a series by normalized calendar date.
func pointsByDate(s models.AssetSeries) map[time.Time]models.TimeSeriesPoint {
	m := make(map[time.Time]models.TimeSeriesPoint, len(s.Points))
	for _, p := range s.Points {
		m[util.Day(p.Date)] = p
	}
	return m
}

// overlapDates returns the sorted intersection of the two series' dates,
// independent of trading-window status.
func overlapDates(a, b models.AssetSeries) []time.Time {
	inB := make(map[time.Time]struct{}, len(b.Points))
	for _, p := range b.Points {
		inB[util.Day(p.Date)] = struct{}{}
	}
	var out []time.Time
	for _, p := range a.Points {
		d := util.Day(p.Date)
		if _, ok := inB[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
