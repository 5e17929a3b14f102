package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/stickers"
)

// Syncer runs one full sticker sync.
type Syncer interface {
	Sync(ctx context.Context) (stickers.RunReport, error)
}

// Scheduler periodically refreshes the sticker set.
type Scheduler struct {
	scheduler *gocron.Scheduler
	syncer    Syncer
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(syncer Syncer, interval, timeout time.Duration, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// a slow run delays the next one instead of overlapping it
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		syncer:    syncer,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job, runs it once immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(func() {
		_ = RunOnce(context.Background(), s.syncer, s.timeout, s.logger)
	})
	if err != nil {
		return fmt.Errorf("schedule sync job: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", zap.Duration("interval", interval))
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce performs a single bounded sync and logs its outcome.
func RunOnce(ctx context.Context, syncer Syncer, timeout time.Duration, logger *zap.Logger) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Info("running sticker sync")
	report, err := syncer.Sync(ctx)
	if err != nil {
		logger.Error("sticker sync failed", zap.String("run_id", report.ID), zap.Error(err))
		return err
	}
	logger.Info("sticker sync completed",
		zap.String("run_id", report.ID),
		zap.Int("cities", len(report.Cities)),
		zap.Bool("created", report.Outcome.Created),
		zap.Int("replaced", report.Outcome.Replaced),
		zap.Int("added", report.Outcome.Added),
		zap.Int("deleted", report.Outcome.Deleted),
		zap.Int("failures", len(report.Outcome.Failures)),
	)
	return nil
}
