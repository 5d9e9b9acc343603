//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"PerpParity/pkg/config"
	"PerpParity/pkg/server"
)

// InitializeApp wires together the full application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideClickHouseClient,
		ProvideCacheService,
		ProvideInceptionCache,
		ProvideSeriesStore,
		ProvideKafkaProducer,
		ProvideAlertPublisher,
		ProvideKafkaConsumer,
		ProvideBarsHandler,
		ProvideEngineConfig,
		ProvideAnalyzer,
		ProvideHub,
		ProvideCSVWriter,
		ProvideExcelWriter,
		ProvideBatchRunner,
		ProvideAnalysisHandler,
		ProvideHTTPHandler,
		ProvideScheduler,
		ProvideApp,
	)
	return nil, nil
}
