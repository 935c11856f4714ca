// Package scheduler wires the periodic signal detection sweep and the daily
// market-cap refresh onto cron schedules. Sweeps are skipped outside market
// hours.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/signal"
	"github.com/mohamedkhairy/argus/internal/universe"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

// sweepTimeout bounds one scheduled sweep run
const sweepTimeout = 10 * time.Minute

// refreshTimeout bounds one market-cap refresh run
const refreshTimeout = 15 * time.Minute

// Scheduler runs the periodic jobs on cron schedules
type Scheduler struct {
	cfg      config.SchedulerConfig
	sweeper  *signal.Sweeper
	universe *universe.Service
	cron     *cron.Cron
}

// New creates a job scheduler
func New(cfg config.SchedulerConfig, sweeper *signal.Sweeper, universeService *universe.Service) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		sweeper:  sweeper,
		universe: universeService,
		cron:     cron.New(),
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		logger.Info("Scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.SweepSpec, s.runSweep); err != nil {
		return err
	}
	if s.cfg.MarketCapEnable {
		if _, err := s.cron.AddFunc(s.cfg.MarketCapSpec, s.runMarketCapRefresh); err != nil {
			return err
		}
	}

	s.cron.Start()
	logger.Info("Scheduler started",
		logger.String("sweep_spec", s.cfg.SweepSpec),
		logger.String("market_cap_spec", s.cfg.MarketCapSpec),
		logger.Bool("market_cap_enabled", s.cfg.MarketCapEnable),
	)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) runSweep() {
	if !cache.IsMarketHours(time.Now()) {
		logger.Debug("Skipping signal sweep outside market hours")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.sweeper.Run(ctx); err != nil {
		logger.Error("Scheduled signal sweep failed", logger.ErrorField(err))
	}
}

func (s *Scheduler) runMarketCapRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	updated, err := s.universe.UpdateMarketCaps(ctx)
	if err != nil {
		logger.Error("Scheduled market-cap refresh failed", logger.ErrorField(err))
		return
	}
	logger.Info("Market-cap refresh complete", logger.Int("updated", updated))
}
