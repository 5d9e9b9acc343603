package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"PerpParity/internal/domain/models"
	"PerpParity/internal/domain/repository"
	"PerpParity/pkg/util"
)

// Schema statements for pkg/clickhouse InitSchema. ReplacingMergeTree keyed
// by (asset_id, source, date) makes bar ingestion an idempotent upsert.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS daily_bars (
		asset_id        String,
		source          LowCardinality(String),
		date            Date,
		open            Float64,
		high            Float64,
		low             Float64,
		close           Float64,
		volume          Float64,
		notional_volume Float64,
		num_trades      UInt32,
		ingested_at     DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(ingested_at)
	ORDER BY (asset_id, source, date)`,
	`CREATE TABLE IF NOT EXISTS assets (
		asset_id     String,
		asset_type   LowCardinality(String),
		display_name String,
		updated_at   DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(updated_at)
	ORDER BY asset_id`,
}

// ClickHouseSeriesStore implements repository.SeriesStore over the daily_bars
// and assets tables. Inception dates are memoized through the injected cache.
type ClickHouseSeriesStore struct {
	db         *sql.DB
	inceptions repository.InceptionCache
}

// NewClickHouseSeriesStore creates the ClickHouse-backed series store.
func NewClickHouseSeriesStore(db *sql.DB, inceptions repository.InceptionCache) repository.SeriesStore {
	return &ClickHouseSeriesStore{db: db, inceptions: inceptions}
}

func (s *ClickHouseSeriesStore) ListAssets(ctx context.Context) ([]models.AssetMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT asset_id, asset_type, display_name FROM assets FINAL ORDER BY asset_id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.AssetMeta
	for rows.Next() {
		var m models.AssetMeta
		if err := rows.Scan(&m.AssetID, &m.AssetType, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, m)
	}
	return assets, rows.Err()
}

func (s *ClickHouseSeriesStore) GetSeries(ctx context.Context, assetID string, source models.SourceTag) (models.AssetSeries, error) {
	series := models.AssetSeries{AssetID: assetID, Source: source}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, open, high, low, close, volume, notional_volume, num_trades
		 FROM daily_bars FINAL
		 WHERE asset_id = ? AND source = ?
		 ORDER BY date ASC`,
		assetID, string(source))
	if err != nil {
		return series, fmt.Errorf("get series %s/%s: %w", assetID, source, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.TimeSeriesPoint
		var date time.Time
		if err := rows.Scan(&date, &p.Open, &p.High, &p.Low, &p.Close,
			&p.Volume, &p.NotionalVolume, &p.NumTrades); err != nil {
			return series, fmt.Errorf("scan bar: %w", err)
		}
		p.Date = util.Day(date)
		series.Points = append(series.Points, p)
	}
	if err := rows.Err(); err != nil {
		return series, err
	}

	inception, err := s.resolveInception(ctx, assetID, source)
	if err != nil {
		return series, err
	}
	series.Inception = inception
	return series, nil
}

// resolveInception returns the first recorded date for the pair, going to
// storage only on cache miss. Inception is the first date with any data;
// leading zero-volume rows (DeFi pre-launch) sit inside the series and are
// excluded later by the trading-window resolver, not here.
func (s *ClickHouseSeriesStore) resolveInception(ctx context.Context, assetID string, source models.SourceTag) (time.Time, error) {
	if s.inceptions != nil {
		if t, ok, err := s.inceptions.Get(ctx, assetID, source); err == nil && ok {
			return t, nil
		}
	}

	var inception sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(date) FROM daily_bars FINAL
		 WHERE asset_id = ? AND source = ?`,
		assetID, string(source)).Scan(&inception)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve inception %s/%s: %w", assetID, source, err)
	}
	if !inception.Valid {
		return time.Time{}, nil
	}

	day := util.Day(inception.Time)
	if s.inceptions != nil {
		_ = s.inceptions.Set(ctx, assetID, source, day)
	}
	return day, nil
}

func (s *ClickHouseSeriesStore) StoreBar(ctx context.Context, bar *models.DailyBar) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_bars
		 (asset_id, source, date, open, high, low, close, volume, notional_volume, num_trades)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bar.AssetID, string(bar.Source), util.Day(bar.Date),
		bar.Open, bar.High, bar.Low, bar.Close,
		bar.Volume, bar.NotionalVolume, bar.NumTrades)
	if err != nil {
		return fmt.Errorf("store bar %s/%s: %w", bar.AssetID, bar.Source, err)
	}
	return nil
}

func (s *ClickHouseSeriesStore) Close() error {
	return nil // connection pool managed by pkg/clickhouse
}
