package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes the fire-risk assessment.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, refresher Refresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// cycleTimeout bounds a single run.
func (s *Scheduler) cycleTimeout() time.Duration {
	return s.interval * 4
}

// Start schedules the refresh job, runs it once immediately and starts the
// underlying scheduler. Runs never overlap: a run still in progress when the
// next one is due causes that tick to be skipped.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout())
	defer cancel()

	// The refresher records and logs the cycle outcome itself.
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Debug("scheduler: refresh cycle failed", zap.Error(err))
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
