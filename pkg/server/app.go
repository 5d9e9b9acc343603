package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "PerpParity/internal/domain/repository"
	"PerpParity/internal/handler/ws"
	"PerpParity/internal/scheduler"
	"PerpParity/internal/usecase"
	pkgcache "PerpParity/pkg/cache"
	pkgch "PerpParity/pkg/clickhouse"
	"PerpParity/pkg/config"
	xhttp "PerpParity/pkg/http"
	pkgkafka "PerpParity/pkg/kafka"
	applogger "PerpParity/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	runner      *usecase.BatchRunner
	consumer    *pkgkafka.Consumer
	barsHandler *usecase.KafkaBarsHandler
	chClient    *pkgch.Client
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	hub         *ws.Hub
	sched       *scheduler.Scheduler
	publisher   domrepo.AlertPublisher
	cache       pkgcache.Service
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	runner *usecase.BatchRunner,
	consumer *pkgkafka.Consumer,
	barsHandler *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
	hub *ws.Hub,
	sched *scheduler.Scheduler,
	publisher domrepo.AlertPublisher,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		runner:      runner,
		consumer:    consumer,
		barsHandler: barsHandler,
		chClient:    chClient,
		httpHandler: httpHandler,
		hub:         hub,
		sched:       sched,
		publisher:   publisher,
		cache:       cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.hub.Start()

	if a.consumer != nil && a.barsHandler != nil {
		a.consumer.RegisterHandler(a.barsHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
	}

	if a.cfg.Schedule.Enabled && a.sched != nil {
		if err := a.sched.Start(); err != nil {
			a.log.Error("scheduler start error", applogger.Error(err))
			return err
		}
	}

	if a.cfg.Schedule.RunOnStart {
		go func() {
			if _, err := a.runner.Run(ctx); err != nil {
				a.log.Error("startup run failed", applogger.Error(err))
			}
		}()
	}

	a.httpServer = xhttp.NewServer(a.httpHandler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.sched != nil {
		if err := a.sched.Stop(shutdownCtx); err != nil {
			a.log.Warn("scheduler stop error", applogger.Error(err))
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	a.hub.Stop()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("alert publisher close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
