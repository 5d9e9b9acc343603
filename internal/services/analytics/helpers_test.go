package analytics

import (
	"time"

	"PerpParity/internal/domain/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// volumeSeries builds a daily series starting at start with one point per
// element. A zero notional volume produces a zero-volume (non-trading) row.
func volumeSeries(id string, src models.SourceTag, start string, notionals []float64) models.AssetSeries {
	s := models.AssetSeries{AssetID: id, Source: src, Inception: day(start)}
	for i, v := range notionals {
		vol := 0.0
		if v > 0 {
			vol = v
		}
		s.Points = append(s.Points, models.TimeSeriesPoint{
			Date:           day(start).AddDate(0, 0, i),
			Open:           1, High: 1, Low: 1, Close: 1,
			Volume:         vol,
			NotionalVolume: v,
			NumTrades:      1,
		})
	}
	return s
}

// priceSeries builds a daily series with the given closes and unit volume.
func priceSeries(id string, src models.SourceTag, start string, closes []float64) models.AssetSeries {
	s := models.AssetSeries{AssetID: id, Source: src, Inception: day(start)}
	for i, c := range closes {
		s.Points = append(s.Points, models.TimeSeriesPoint{
			Date:           day(start).AddDate(0, 0, i),
			Open:           c, High: c, Low: c, Close: c,
			Volume:         1,
			NotionalVolume: c,
			NumTrades:      1,
		})
	}
	return s
}
