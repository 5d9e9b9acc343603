package usecase

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"PerpParity/internal/domain/models"
	domrepo "PerpParity/internal/domain/repository"
	"PerpParity/internal/service/export"
	"PerpParity/internal/services/analytics"
	applogger "PerpParity/pkg/logger"
)

// RunResult is the outcome of one full batch run.
type RunResult struct {
	StartedAt   time.Time                 `json:"started_at"`
	Duration    time.Duration             `json:"duration_ns"`
	Analyses    []models.AssetAnalysis    `json:"analyses"`
	Summaries   []models.AssetTypeSummary `json:"summaries"`
	ExportPaths []string                  `json:"export_paths,omitempty"`
	Failed      []string                  `json:"failed,omitempty"`
}

// BatchRunner fans the per-asset analysis out over a bounded worker pool,
// aggregates, exports, and publishes alerts. One asset's bad data fails that
// asset only; the run carries on and reports it in Failed.
type BatchRunner struct {
	analyzer  *Analyzer
	store     domrepo.SeriesStore
	publisher domrepo.AlertPublisher
	progress  domrepo.ProgressSink
	metrics   domrepo.Metrics
	log       *applogger.Logger
	csv       *export.CSVWriter
	excel     *export.ExcelWriter
	workers   int

	mu      sync.Mutex
	running bool
	last    *RunResult
}

// NewBatchRunner creates the batch orchestrator. Workers <= 0 means NumCPU.
// The export writers and progress sink may be nil.
func NewBatchRunner(
	analyzer *Analyzer,
	store domrepo.SeriesStore,
	publisher domrepo.AlertPublisher,
	progress domrepo.ProgressSink,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	csv *export.CSVWriter,
	excel *export.ExcelWriter,
	workers int,
) *BatchRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchRunner{
		analyzer:  analyzer,
		store:     store,
		publisher: publisher,
		progress:  progress,
		metrics:   metrics,
		log:       log,
		csv:       csv,
		excel:     excel,
		workers:   workers,
	}
}

// LastResult returns the most recent completed run, if any.
func (r *BatchRunner) LastResult() *RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Running reports whether a run is in flight.
func (r *BatchRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run executes one full analysis pass over every known asset.
func (r *BatchRunner) Run(ctx context.Context) (*RunResult, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrRunInProgress
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	assets, err := r.store.ListAssets(ctx)
	if err != nil {
		r.metrics.RecordError("list_assets")
		return nil, err
	}
	r.log.Info("batch run: starting",
		applogger.Int("assets", len(assets)),
		applogger.Int("workers", r.workers))

	type outcome struct {
		analysis models.AssetAnalysis
		assetID  string
		err      error
	}

	jobs := make(chan models.AssetMeta)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for meta := range jobs {
				t0 := time.Now()
				a, err := r.analyzer.AnalyzeAsset(ctx, meta)
				r.metrics.RecordLatency("analyze_asset_seconds", time.Since(t0).Seconds())
				results <- outcome{analysis: a, assetID: meta.AssetID, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, meta := range assets {
			select {
			case jobs <- meta:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	res := &RunResult{StartedAt: start}
	for out := range results {
		if out.err != nil {
			r.log.Error("asset analysis failed",
				applogger.String("asset_id", out.assetID),
				applogger.Error(out.err))
			r.metrics.RecordError("analyze_asset")
			res.Failed = append(res.Failed, out.assetID)
			continue
		}
		res.Analyses = append(res.Analyses, out.analysis)
		r.metrics.RecordAssetAnalyzed(out.analysis.AssetType)
		r.metrics.RecordAnomalies(string(models.SourceDeFi), countFlagged(out.analysis.DeFiAnomalies))
		r.metrics.RecordAnomalies(string(models.SourceTradFi), countFlagged(out.analysis.TradFiAnomalies))
		if r.progress != nil {
			r.progress.AssetDone(out.analysis)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Worker completion order is nondeterministic; re-sort for stable output.
	sort.Slice(res.Analyses, func(i, j int) bool {
		return res.Analyses[i].AssetID < res.Analyses[j].AssetID
	})
	sort.Strings(res.Failed)

	res.Summaries = analytics.AggregateByType(res.Analyses)

	if r.csv != nil {
		paths, err := r.csv.Write(res.Analyses, res.Summaries)
		if err != nil {
			r.log.Error("csv export failed", applogger.Error(err))
			r.metrics.RecordError("export_csv")
		} else {
			res.ExportPaths = append(res.ExportPaths, paths...)
		}
	}
	if r.excel != nil {
		path, err := r.excel.Write(res.Analyses, res.Summaries)
		if err != nil {
			r.log.Error("excel export failed", applogger.Error(err))
			r.metrics.RecordError("export_excel")
		} else {
			res.ExportPaths = append(res.ExportPaths, path)
		}
	}

	if r.publisher != nil {
		alerts := buildAlerts(res.Analyses)
		if err := r.publisher.PublishAlerts(ctx, alerts); err != nil {
			r.log.Error("alert publish failed", applogger.Error(err))
			r.metrics.RecordError("publish_alerts")
		} else if len(alerts) > 0 {
			r.log.Info("alerts published", applogger.Int("count", len(alerts)))
		}
	}

	if r.progress != nil {
		r.progress.RunComplete(res.Summaries)
	}

	res.Duration = time.Since(start)
	r.metrics.RecordLatency("batch_run_seconds", res.Duration.Seconds())
	r.log.Info("batch run: complete",
		applogger.Int("analyzed", len(res.Analyses)),
		applogger.Int("failed", len(res.Failed)),
		applogger.Duration("duration_ms", res.Duration))

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()
	return res, nil
}

// buildAlerts converts flagged anomalous days into alert payloads.
func buildAlerts(analyses []models.AssetAnalysis) []models.VolumeAlert {
	var alerts []models.VolumeAlert
	for _, a := range analyses {
		for _, rs := range [][]models.AnomalyResult{a.DeFiAnomalies, a.TradFiAnomalies} {
			for _, r := range rs {
				if !r.IsAnomalous || !r.TScore.Valid {
					continue
				}
				direction := "spike"
				if r.TScore.Value < 0 {
					direction = "drought"
				}
				alerts = append(alerts, models.VolumeAlert{
					AssetID:        r.AssetID,
					AssetType:      a.AssetType,
					Source:         r.Source,
					Date:           r.Date,
					ObservedVolume: r.ObservedVolume,
					WindowMean:     r.WindowMean,
					TScore:         r.TScore.Value,
					Direction:      direction,
				})
			}
		}
	}
	return alerts
}

func countFlagged(rs []models.AnomalyResult) int {
	n := 0
	for _, r := range rs {
		if r.IsAnomalous {
			n++
		}
	}
	return n
}
