package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

func day(s string) time.Time {
	return util.ParseDayDefault(s, time.Time{})
}

func volumeSeries(assetID string, source models.SourceTag, start string, vols []float64) models.AssetSeries {
	first := day(start)
	s := models.AssetSeries{AssetID: assetID, Source: source, Inception: first}
	for i, v := range vols {
		d := first.AddDate(0, 0, i)
		s.Points = append(s.Points, models.TimeSeriesPoint{
			Date:           d,
			Close:          100,
			Volume:         v,
			NotionalVolume: v,
		})
	}
	return s
}

type seriesKey struct {
	assetID string
	source  models.SourceTag
}

// fakeStore is an in-memory SeriesStore for orchestration tests.
type fakeStore struct {
	mu     sync.Mutex
	assets []models.AssetMeta
	series map[seriesKey]models.AssetSeries
	bars   []*models.DailyBar
}

func newFakeStore() *fakeStore {
	return &fakeStore{series: make(map[seriesKey]models.AssetSeries)}
}

func (f *fakeStore) addAsset(meta models.AssetMeta, defi, tradfi models.AssetSeries) {
	f.assets = append(f.assets, meta)
	f.series[seriesKey{meta.AssetID, models.SourceDeFi}] = defi
	f.series[seriesKey{meta.AssetID, models.SourceTradFi}] = tradfi
}

func (f *fakeStore) ListAssets(context.Context) ([]models.AssetMeta, error) {
	return f.assets, nil
}

func (f *fakeStore) GetSeries(_ context.Context, assetID string, source models.SourceTag) (models.AssetSeries, error) {
	s, ok := f.series[seriesKey{assetID, source}]
	if !ok {
		return models.AssetSeries{AssetID: assetID, Source: source}, fmt.Errorf("no series for %s/%s", assetID, source)
	}
	return s, nil
}

func (f *fakeStore) StoreBar(_ context.Context, bar *models.DailyBar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bars = append(f.bars, bar)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// fakePublisher captures published alerts.
type fakePublisher struct {
	mu     sync.Mutex
	alerts []models.VolumeAlert
}

func (f *fakePublisher) PublishAlerts(_ context.Context, alerts []models.VolumeAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alerts...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// fakeProgress records progress callbacks.
type fakeProgress struct {
	mu        sync.Mutex
	done      []string
	completed bool
}

func (f *fakeProgress) AssetDone(a models.AssetAnalysis) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, a.AssetID)
}

func (f *fakeProgress) RunComplete([]models.AssetTypeSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = true
}

// noopMetrics satisfies the metrics interface for tests.
type noopMetrics struct{}

func (noopMetrics) RecordAssetAnalyzed(string)   {}
func (noopMetrics) RecordAnomalies(string, int)  {}
func (noopMetrics) RecordError(string)           {}
func (noopMetrics) RecordLatency(string, float64) {}
