package repository

import (
	"context"
	"time"

	"PerpParity/internal/domain/models"
)

// SeriesStore reads the per-(asset, venue) daily series the acquisition
// collaborators persist, and accepts ingested bars.
type SeriesStore interface {
	// ListAssets returns every classified asset known to the store.
	ListAssets(ctx context.Context) ([]models.AssetMeta, error)
	// GetSeries returns one side's full daily series, sorted ascending by
	// date, with the inception date resolved.
	GetSeries(ctx context.Context, assetID string, source models.SourceTag) (models.AssetSeries, error)
	// StoreBar upserts a single ingested daily bar.
	StoreBar(ctx context.Context, bar *models.DailyBar) error
	Close() error
}

// InceptionCache is the injected key-value lookup for inception dates.
// Staleness is TTL-based: a miss (or expiry) makes the caller recompute from
// storage and refresh the entry.
type InceptionCache interface {
	Get(ctx context.Context, assetID string, source models.SourceTag) (time.Time, bool, error)
	Set(ctx context.Context, assetID string, source models.SourceTag, inception time.Time) error
}

// AlertPublisher hands flagged volume anomalies to downstream consumers.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.VolumeAlert) error
	Close() error
}

// ProgressSink receives run progress for outbound push (websocket hub).
type ProgressSink interface {
	AssetDone(analysis models.AssetAnalysis)
	RunComplete(summaries []models.AssetTypeSummary)
}

// Metrics records operational metrics.
type Metrics interface {
	RecordAssetAnalyzed(assetType string)
	RecordAnomalies(source string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
