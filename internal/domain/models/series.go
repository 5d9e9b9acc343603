package models

import "time"

// SourceTag identifies which side of the comparison a series came from.
type SourceTag string

const (
	SourceDeFi   SourceTag = "defi"
	SourceTradFi SourceTag = "tradfi"
)

// TimeSeriesPoint is one daily OHLCV record. Produced upstream, immutable
// once handed to the engine. NotionalVolume is already USD-converted by the
// acquisition layer (volume x close for non-USD venues).
type TimeSeriesPoint struct {
	Date           time.Time `json:"date"`
	Open           float64   `json:"open"`
	High           float64   `json:"high"`
	Low            float64   `json:"low"`
	Close          float64   `json:"close"`
	Volume         float64   `json:"volume"`
	NotionalVolume float64   `json:"notional_volume"`
	NumTrades      int       `json:"num_trades"`
}

// AssetSeries is one (asset, venue) daily series sorted strictly ascending
// by date. Dates need not be contiguous; gaps are non-trading days or
// missing data, distinguished only by whether volume is present and nonzero.
type AssetSeries struct {
	AssetID   string            `json:"asset_id"`
	Source    SourceTag         `json:"source"`
	Points    []TimeSeriesPoint `json:"points"`
	Inception time.Time         `json:"inception_date"`
}

// DailyBar is the ingestion-side shape of a TimeSeriesPoint: one bar keyed
// by asset and source, as published by the acquisition collaborators.
type DailyBar struct {
	AssetID        string    `json:"asset_id" validate:"required"`
	Source         SourceTag `json:"source" validate:"required,oneof=defi tradfi"`
	Date           time.Time `json:"date" validate:"required"`
	Open           float64   `json:"open" validate:"gte=0"`
	High           float64   `json:"high" validate:"gte=0"`
	Low            float64   `json:"low" validate:"gte=0"`
	Close          float64   `json:"close" validate:"gte=0"`
	Volume         float64   `json:"volume" validate:"gte=0"`
	NotionalVolume float64   `json:"notional_volume" validate:"gte=0"`
	NumTrades      int       `json:"num_trades" validate:"gte=0"`
}

// Point converts the bar to its series representation.
func (b *DailyBar) Point() TimeSeriesPoint {
	return TimeSeriesPoint{
		Date:           b.Date,
		Open:           b.Open,
		High:           b.High,
		Low:            b.Low,
		Close:          b.Close,
		Volume:         b.Volume,
		NotionalVolume: b.NotionalVolume,
		NumTrades:      b.NumTrades,
	}
}

// AssetMeta carries the classification collaborator's tags for one asset.
// AssetType is an opaque grouping key; the engine never interprets it.
type AssetMeta struct {
	AssetID     string `json:"asset_id"`
	AssetType   string `json:"asset_type"`
	DisplayName string `json:"display_name"`
}

// TradingWindow is the ordered set of valid trading days for one series:
// dates on or after inception with strictly positive volume. Recomputed on
// demand, never persisted.
type TradingWindow struct {
	AssetID string      `json:"asset_id"`
	Source  SourceTag   `json:"source"`
	Dates   []time.Time `json:"dates"`
}

// Len returns the number of trading days in the window.
func (w TradingWindow) Len() int { return len(w.Dates) }
