package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// Syncer runs one reconciliation.
type Syncer interface {
	Sync(ctx context.Context) (domain.SyncStatus, error)
}

// Scheduler runs a sync every interval and whenever Trigger is called.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	trigger  chan struct{}
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. It does nothing until Run is called.
func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		logger:   logger.With(slog.String("component", "app.Scheduler")),
	}
}

// Trigger requests a sync without waiting for it. It reports false when a
// request is already pending.
func (s *Scheduler) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run blocks until ctx is done. Syncs never overlap: a tick that arrives
// while a sync is running is dropped by the ticker.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "sync scheduler started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "sync scheduler stopped")

			return nil
		case <-ticker.C:
			s.runOnce(ctx, "interval")
		case <-s.trigger:
			s.runOnce(ctx, "manual")
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, reason string) {
	status, err := s.syncer.Sync(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled sync failed",
			slog.String("reason", reason),
			slog.Any("error", err),
		)

		return
	}

	s.logger.DebugContext(ctx, "scheduled sync finished",
		slog.String("reason", reason),
		slog.Int("fetched", status.Fetched),
		slog.Int("total", status.Total),
	)
}
