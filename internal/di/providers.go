package di

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"PerpParity/internal/domain/repository"
	"PerpParity/internal/handler/api"
	"PerpParity/internal/handler/ws"
	internalrepo "PerpParity/internal/repository"
	"PerpParity/internal/scheduler"
	svccache "PerpParity/internal/service/cache"
	"PerpParity/internal/service/export"
	"PerpParity/internal/services/analytics"
	"PerpParity/internal/usecase"
	pkgcache "PerpParity/pkg/cache"
	pkgch "PerpParity/pkg/clickhouse"
	"PerpParity/pkg/config"
	xhttp "PerpParity/pkg/http"
	pkgkafka "PerpParity/pkg/kafka"
	applogger "PerpParity/pkg/logger"
	"PerpParity/pkg/metrics"
	"PerpParity/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	log, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates the ClickHouse client and ensures the
// schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		return nil, fmt.Errorf("failed to init clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCacheService creates the cache backend selected by config.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		svc, err := pkgcache.NewRedisCache(
			pkgcache.WithAddr(cfg.Cache.Addr),
			pkgcache.WithPassword(cfg.Cache.Password),
			pkgcache.WithDB(cfg.Cache.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		return svc, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideInceptionCache wraps the cache backend for inception date lookups.
func ProvideInceptionCache(backend pkgcache.Service, cfg *config.Config) repository.InceptionCache {
	return svccache.NewInceptionCache(backend, cfg.Cache.InceptionTTL)
}

// ProvideSeriesStore creates the ClickHouse-backed series store.
func ProvideSeriesStore(client *pkgch.Client, inceptions repository.InceptionCache) repository.SeriesStore {
	return internalrepo.NewClickHouseSeriesStore(client.DB(), inceptions)
}

// ProvideKafkaProducer creates the Kafka producer for alert publishing.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, 10*time.Second),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPublisher creates the anomaly alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideKafkaConsumer creates the bar ingestion consumer.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	opts := []pkgkafka.ConsumerOption{
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
	}
	if cfg.Kafka.Consumer.DLQTopic != "" {
		opts = append(opts, pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic))
	}
	consumer, err := pkgkafka.NewConsumer(log, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideBarsHandler creates the daily bar message handler.
func ProvideBarsHandler(cfg *config.Config, store repository.SeriesStore, m repository.Metrics) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.BarsTopic, store, m)
}

// ProvideEngineConfig maps the analysis section of the app config onto the
// engine configuration.
func ProvideEngineConfig(cfg *config.Config) analytics.Config {
	return analytics.Config{
		WindowSize:          cfg.Analysis.WindowSize,
		ConfidenceThreshold: cfg.Analysis.ConfidenceThreshold,
		MaxLag:              cfg.Analysis.MaxLag,
		MinLagPoints:        cfg.Analysis.MinLagPoints,
		MinOverlapDays:      cfg.Analysis.MinOverlapDays,
	}
}

// ProvideAnalyzer creates the per-asset analyzer.
func ProvideAnalyzer(store repository.SeriesStore, engineCfg analytics.Config) *usecase.Analyzer {
	return usecase.NewAnalyzer(store, engineCfg)
}

// ProvideHub creates the websocket progress hub.
func ProvideHub(log *applogger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideCSVWriter creates the CSV exporter, or nil when disabled.
func ProvideCSVWriter(cfg *config.Config) *export.CSVWriter {
	if !cfg.Export.CSV {
		return nil
	}
	return export.NewCSVWriter(cfg.Export.Dir, export.LabelsFromConfig(cfg.LabelsFor("")))
}

// ProvideExcelWriter creates the Excel exporter, or nil when disabled.
func ProvideExcelWriter(cfg *config.Config) *export.ExcelWriter {
	if !cfg.Export.Excel {
		return nil
	}
	return export.NewExcelWriter(cfg.Export.Dir, export.LabelsFromConfig(cfg.LabelsFor("")))
}

// ProvideBatchRunner creates the full-universe batch orchestrator.
func ProvideBatchRunner(
	analyzer *usecase.Analyzer,
	store repository.SeriesStore,
	publisher repository.AlertPublisher,
	hub *ws.Hub,
	m repository.Metrics,
	log *applogger.Logger,
	csv *export.CSVWriter,
	excel *export.ExcelWriter,
	cfg *config.Config,
) *usecase.BatchRunner {
	return usecase.NewBatchRunner(analyzer, store, publisher, hub, m, log, csv, excel, cfg.Analysis.Workers)
}

// ProvideAnalysisHandler creates the REST API handler.
func ProvideAnalysisHandler(log *applogger.Logger, analyzer *usecase.Analyzer, runner *usecase.BatchRunner) *api.AnalysisHandler {
	return api.NewAnalysisHandler(log, analyzer, runner)
}

// httpHandler composes the REST routes and the websocket endpoint into the
// single handler the HTTP server accepts.
type httpHandler struct {
	api *api.AnalysisHandler
	hub *ws.Hub
}

func (h *httpHandler) RegisterRoutes(e *echo.Echo) {
	h.api.RegisterRoutes(e)
	e.GET("/ws", h.hub.Serve)
}

// ProvideHTTPHandler composes all route handlers.
func ProvideHTTPHandler(apiHandler *api.AnalysisHandler, hub *ws.Hub) xhttp.Handler {
	return &httpHandler{api: apiHandler, hub: hub}
}

// ProvideScheduler creates the daily run scheduler.
func ProvideScheduler(runner *usecase.BatchRunner, log *applogger.Logger, cfg *config.Config) *scheduler.Scheduler {
	return scheduler.New(runner, log, cfg.Schedule.DailyCron)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	runner *usecase.BatchRunner,
	consumer *pkgkafka.Consumer,
	barsHandler *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
	hub *ws.Hub,
	sched *scheduler.Scheduler,
	publisher repository.AlertPublisher,
	cacheService pkgcache.Service,
) *server.App {
	return server.New(cfg, log, runner, consumer, barsHandler, chClient, handler, hub, sched, publisher, cacheService)
}
