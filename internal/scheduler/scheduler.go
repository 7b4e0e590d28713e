package scheduler

import (
	"fmt"

	"StructureSentinel/internal/logger"
	"StructureSentinel/internal/service"

	"github.com/robfig/cron/v3"
)

// Sweeper drops expired cache entries and reports how many went.
type Sweeper interface {
	Sweep() int
}

// StatsSource exposes the analyzer counters.
type StatsSource interface {
	Stats() service.Stats
}

// Scheduler manages the housekeeping cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Sweeper Sweeper // nil when the cache is not in-process
	Stats   StatsSource
	Log     *logger.Logger

	last service.Stats
}

// NewScheduler creates a new Scheduler.
func NewScheduler(sw Sweeper, stats StatsSource, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Sweeper: sw,
		Stats:   stats,
		Log:     log,
	}
}

// RegisterAll registers the cache sweep and stats tasks.
func (s *Scheduler) RegisterAll(sweepCron, statsCron string) error {
	if s.Sweeper != nil {
		if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
			return fmt.Errorf("register cache sweep task: %w", err)
		}
	}
	if s.Stats != nil {
		if _, err := s.Cron.AddFunc(statsCron, s.statsTask); err != nil {
			return fmt.Errorf("register stats task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", logger.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

func (s *Scheduler) sweepTask() {
	n := s.Sweeper.Sweep()
	s.Log.Debug("cache sweep", logger.Int("evicted", n))
}

// statsTask logs the counters and their change since the previous run.
func (s *Scheduler) statsTask() {
	cur := s.Stats.Stats()
	s.Log.Info("analysis stats",
		logger.Int64("analyses", int64(cur.Analyses)),
		logger.Int64("analyses_delta", int64(cur.Analyses-s.last.Analyses)),
		logger.Int64("invalid", int64(cur.Invalid)),
		logger.Int64("cache_hits", int64(cur.CacheHits)),
		logger.Int64("cache_misses", int64(cur.CacheMisses)),
		logger.Int64("setups", int64(cur.Setups)),
	)
	s.last = cur
}
