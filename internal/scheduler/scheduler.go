package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/city-weather/internal/ratelimit"
)

// Scheduler periodically reports the admission gate's outcomes.
type Scheduler struct {
	scheduler *gocron.Scheduler
	stats     *ratelimit.Stats
	interval  time.Duration
	limit     int
	logger    *slog.Logger
}

// New creates a new Scheduler reporting stats every interval against a quota of limit.
func New(stats *ratelimit.Stats, interval time.Duration, limit int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		stats:     stats,
		interval:  interval,
		limit:     limit,
		logger:    logger,
	}
}

// Start registers the report job and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	if s.stats == nil || s.interval <= 0 {
		s.logger.Info("scheduler: rate limit reporting disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.report)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler. No report is emitted for a partial window.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) report() {
	admitted, rejected := s.stats.Drain()
	if admitted == 0 && rejected == 0 {
		s.logger.Debug("scheduler: no weather requests", "interval", s.interval)
		return
	}

	level := slog.LevelInfo
	if rejected > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, "scheduler: rate limit window summary",
		"admitted", admitted,
		"rejected", rejected,
		"limit", s.limit,
		"interval", s.interval,
	)
}
