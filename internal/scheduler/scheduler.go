package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/service"
)

// Scheduler drives the recurring cleanup batch. One batch runs at a time;
// the ticker interval is expected to dwarf batch duration.
type Scheduler struct {
	cleanupService *service.CleanupService
	interval       time.Duration
	logger         *zap.Logger
}

func New(cleanupService *service.CleanupService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cleanupService: cleanupService,
		interval:       interval,
		logger:         logger,
	}
}

// Start launches the cleanup loop and returns immediately. The loop stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("cleanup scheduler started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("cleanup scheduler stopped")
				return
			case <-ticker.C:
				if _, err := s.cleanupService.Run(ctx); err != nil {
					s.logger.Error("scheduled cleanup failed", zap.Error(err))
				}
			}
		}
	}()
}
