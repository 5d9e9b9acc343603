package analytics

import (
	"fmt"
	"time"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

// SeriesError reports a caller contract violation in an input series. The
// engine fails fast on malformed input instead of sanitizing it: statistics
// computed on corrupted series are worse than no result.
type SeriesError struct {
	AssetID string
	Source  models.SourceTag
	Date    time.Time
	Reason  string
}

func (e *SeriesError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("series %s/%s: %s", e.AssetID, e.Source, e.Reason)
	}
	return fmt.Sprintf("series %s/%s at %s: %s", e.AssetID, e.Source, util.FormatDay(e.Date), e.Reason)
}

func seriesErr(s models.AssetSeries, date time.Time, reason string) error {
	return &SeriesError{AssetID: s.AssetID, Source: s.Source, Date: date, Reason: reason}
}

// ValidateSeries checks the input contract: dates strictly ascending (which
// also rules out duplicates), no negative prices, volumes or trade counts,
// and no point preceding the declared inception date. A nil return means the
// series is safe to compute on.
func ValidateSeries(s models.AssetSeries) error {
	var prev time.Time
	inception := util.Day(s.Inception)
	for i, p := range s.Points {
		d := util.Day(p.Date)
		if i > 0 {
			if d.Equal(prev) {
				return seriesErr(s, d, "duplicate date")
			}
			if d.Before(prev) {
				return seriesErr(s, d, "dates not ascending")
			}
		}
		if p.Open < 0 || p.High < 0 || p.Low < 0 || p.Close < 0 {
			return seriesErr(s, d, "negative price")
		}
		if p.Volume < 0 || p.NotionalVolume < 0 {
			return seriesErr(s, d, "negative volume")
		}
		if p.NumTrades < 0 {
			return seriesErr(s, d, "negative trade count")
		}
		if !s.Inception.IsZero() && d.Before(inception) {
			return seriesErr(s, d, "point precedes inception date")
		}
		prev = d
	}
	return nil
}
