// Package scheduler triggers the daily batch run after the UTC day closes.
package scheduler

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"

	"PerpParity/internal/usecase"
	applogger "PerpParity/pkg/logger"
)

// Scheduler runs the batch analysis on a cron expression. Expressions use
// six fields (with seconds), e.g. "0 30 0 * * *" for 00:30:00 UTC daily.
type Scheduler struct {
	cron   *cron.Cron
	runner *usecase.BatchRunner
	log    *applogger.Logger
	spec   string
}

// New creates a scheduler for the given cron spec.
func New(runner *usecase.BatchRunner, log *applogger.Logger, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: runner,
		log:    log,
		spec:   spec,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.log.Info("scheduled run: starting", applogger.String("spec", s.spec))
		if _, err := s.runner.Run(context.Background()); err != nil {
			if errors.Is(err, usecase.ErrRunInProgress) {
				s.log.Warn("scheduled run skipped: previous run still active")
				return
			}
			s.log.Error("scheduled run failed", applogger.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", applogger.String("spec", s.spec))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
