package quizbank

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	quizSvc "quizbank/internal/domain/services/quizbank"
)

// RosterRefresher periodically reloads folders and rebuilds every roster so
// edits made through other screens become visible without a restart.
type RosterRefresher struct {
	scheduler gocron.Scheduler
	manager   quizSvc.FolderTreeManager
	timeout   time.Duration
	logger    *slog.Logger
}

// NewRosterRefresher schedules a refresh every interval. The job runs in
// singleton mode, so a slow run delays the next one instead of overlapping it.
func NewRosterRefresher(manager quizSvc.FolderTreeManager, interval time.Duration, logger *slog.Logger) (*RosterRefresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("roster refresh interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	r := &RosterRefresher{
		scheduler: scheduler,
		manager:   manager,
		timeout:   interval,
		logger:    logger,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.run),
		gocron.WithName("roster-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("create roster refresh job: %w", err)
	}

	return r, nil
}

// Start starts the scheduler
func (r *RosterRefresher) Start() {
	r.logger.Info("starting roster refresh job", "interval", r.timeout)
	r.scheduler.Start()
}

// Stop stops the scheduler and waits for a running refresh to finish
func (r *RosterRefresher) Stop() error {
	r.logger.Info("stopping roster refresh job")
	return r.scheduler.Shutdown()
}

func (r *RosterRefresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	// Rosters are only touched once the folder list is known good
	if err := r.manager.Load(ctx); err != nil {
		r.logger.Warn("roster refresh skipped: folder load failed", "error", err, "duration", time.Since(start))
		return
	}
	if err := r.manager.RebuildRosters(ctx); err != nil {
		r.logger.Warn("roster refresh incomplete", "error", err, "duration", time.Since(start))
		return
	}
	r.logger.Info("rosters refreshed", "duration", time.Since(start))
}
