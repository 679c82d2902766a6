package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/workprior/crypto-backtest/pkg/logger"
)

// Scheduler re-runs the backtest batch on a cron spec. Used by the API
// server for periodic refreshes; the CLI runs one-shot.
type Scheduler struct {
	cron *cron.Cron
	run  func()
}

func New(run func()) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		run:  run,
	}
}

// Register adds the refresh job. spec is a standard 5-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		logger.Info("scheduled batch refresh starting")
		s.run()
	}); err != nil {
		return fmt.Errorf("register refresh job %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info("scheduler stopped")
}
