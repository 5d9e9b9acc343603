package usecase

import (
	"context"
	"fmt"

	"PerpParity/internal/domain/models"
	domrepo "PerpParity/internal/domain/repository"
	"PerpParity/internal/services/analytics"
)

// Analyzer runs the comparative statistics for one asset pair. It owns no
// state beyond its collaborators and is safe for concurrent use.
type Analyzer struct {
	store domrepo.SeriesStore
	cfg   analytics.Config
}

// NewAnalyzer creates an analyzer with the given engine configuration.
func NewAnalyzer(store domrepo.SeriesStore, cfg analytics.Config) *Analyzer {
	return &Analyzer{store: store, cfg: cfg}
}

// AnalyzeAsset computes the full per-asset bundle: anomaly scans on both
// sides, the lag sweep, price statistics, and overlap volume means.
func (a *Analyzer) AnalyzeAsset(ctx context.Context, meta models.AssetMeta) (models.AssetAnalysis, error) {
	res := models.AssetAnalysis{AssetID: meta.AssetID, AssetType: meta.AssetType}

	defi, tradfi, err := a.loadPair(ctx, meta.AssetID)
	if err != nil {
		return res, err
	}

	res.DeFiAnomalies, err = analytics.DetectAnomalies(defi, a.cfg)
	if err != nil {
		return res, fmt.Errorf("defi anomalies: %w", err)
	}
	res.TradFiAnomalies, err = analytics.DetectAnomalies(tradfi, a.cfg)
	if err != nil {
		return res, fmt.Errorf("tradfi anomalies: %w", err)
	}

	res.CrossCorrelation, err = analytics.CrossCorrelate(defi, tradfi, a.cfg)
	if err != nil {
		return res, fmt.Errorf("cross-correlation: %w", err)
	}

	res.Price, err = analytics.ComparePrices(defi, tradfi)
	if err != nil {
		return res, fmt.Errorf("price comparison: %w", err)
	}

	res.MeanDeFiVolume, res.MeanTradFiVolume, res.OverlapDays = analytics.MeanOverlapVolumes(defi, tradfi)
	return res, nil
}

// Anomalies serves the single-asset anomaly endpoint with per-request window
// and threshold overrides.
func (a *Analyzer) Anomalies(ctx context.Context, q models.AnomalyQuery) ([]models.AnomalyResult, error) {
	s, err := a.store.GetSeries(ctx, q.AssetID, models.SourceTag(q.Source))
	if err != nil {
		return nil, err
	}
	cfg := a.cfg
	cfg.WindowSize = q.Window
	cfg.ConfidenceThreshold = q.Threshold
	return analytics.DetectAnomalies(s, cfg)
}

// CrossCorrelation serves the single-asset lag sweep endpoint.
func (a *Analyzer) CrossCorrelation(ctx context.Context, q models.CrossCorrQuery) (models.CrossCorrelationResult, error) {
	defi, tradfi, err := a.loadPair(ctx, q.AssetID)
	if err != nil {
		return models.CrossCorrelationResult{}, err
	}
	cfg := a.cfg
	cfg.MaxLag = q.MaxLag
	return analytics.CrossCorrelate(defi, tradfi, cfg)
}

// Prices serves the single-asset price comparison endpoint.
func (a *Analyzer) Prices(ctx context.Context, q models.PriceQuery) (models.PriceComparisonResult, error) {
	defi, tradfi, err := a.loadPair(ctx, q.AssetID)
	if err != nil {
		return models.PriceComparisonResult{}, err
	}
	return analytics.ComparePrices(defi, tradfi)
}

func (a *Analyzer) loadPair(ctx context.Context, assetID string) (defi, tradfi models.AssetSeries, err error) {
	defi, err = a.store.GetSeries(ctx, assetID, models.SourceDeFi)
	if err != nil {
		return defi, tradfi, fmt.Errorf("load defi series: %w", err)
	}
	tradfi, err = a.store.GetSeries(ctx, assetID, models.SourceTradFi)
	if err != nil {
		return defi, tradfi, fmt.Errorf("load tradfi series: %w", err)
	}
	return defi, tradfi, nil
}
