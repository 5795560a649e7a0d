package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper is anything that can drop expired state
type Sweeper interface {
	Sweep(now time.Time) int
}

// Scheduler periodically evicts rate limit windows that have fully expired
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  zerolog.Logger
}

// NewScheduler creates a new scheduler running the sweep on spec
// (standard cron syntax or descriptors such as "@every 1m")
func NewScheduler(spec string, sweeper Sweeper, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		logger:  logger.With().Str("component", "scheduler").Logger(),
	}

	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start starts the scheduler and blocks until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting scheduler...")
	s.cron.Start()

	for _, entry := range s.cron.Entries() {
		s.logger.Info().
			Time("next_sweep_run", entry.Next).
			Msg("Scheduled rate limit sweep")
	}

	// Wait for context cancellation
	<-ctx.Done()
	s.Stop()
	s.logger.Info().Msg("Scheduler stopped")
	return ctx.Err()
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// runSweep executes one eviction pass
func (s *Scheduler) runSweep() {
	removed := s.sweeper.Sweep(time.Now())
	s.logger.Debug().
		Int("removed_users", removed).
		Msg("Rate limit sweep completed")
}
