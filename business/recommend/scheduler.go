package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"creatorMarket/pkg/logger"
)

// Scheduler runs the periodic full refresh for recently active users and
// garbage-collects behavior events that fell out of the retention window.
// It is best-effort by design: per-user failures are logged and skipped so
// a bad user never stalls the loop, and the bounded concurrency keeps it
// from starving interactive recomputation.
type Scheduler struct {
	svc          *RecommendService
	behaviorRepo BehaviorRepository
	cfg          Config
}

func NewScheduler(svc *RecommendService, behaviorRepo BehaviorRepository, cfg Config) *Scheduler {
	return &Scheduler{
		svc:          svc,
		behaviorRepo: behaviorRepo,
		cfg:          cfg,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	logger.Info("recommendation_scheduler_started",
		"interval", s.cfg.RefreshInterval.String(),
		"concurrency", s.cfg.SchedulerConcurrency,
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("recommendation_scheduler_stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()

	s.gcEvents(ctx)

	userIDs, err := s.behaviorRepo.ActiveUserIDs(ctx, s.cfg.ActiveWindowDays, 1000)
	if err != nil {
		logger.Warn("scheduler_active_users_failed", "error", err)
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.SchedulerConcurrency)

	for _, userID := range userIDs {
		eg.Go(func() error {
			if err := s.svc.RefreshUser(egCtx, userID); err != nil {
				logger.Warn("scheduled_refresh_failed", "user_id", userID, "error", err)
			}
			return nil
		})
	}

	_ = eg.Wait()

	logger.Info("scheduled_refresh_complete",
		"users", len(userIDs),
		"elapsed", time.Since(start).String(),
	)
}

func (s *Scheduler) gcEvents(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.WindowDays)

	deleted, err := s.behaviorRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.Warn("behavior_gc_failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Info("behavior_gc_complete", "deleted", deleted, "cutoff", cutoff)
	}
}
