package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/pkg/storage"
)

type CleanupEventStore interface {
	FindCleanupDue(now time.Time) ([]models.Event, error)
	FindGalleriesExpiringWithin(now time.Time, window time.Duration) ([]models.Event, error)
	SetStatus(id uint, from, to models.EventStatus) error
	MarkExpiryWarned(id uint, warnedAt time.Time) error
}

type CleanupCaptureStore interface {
	DeleteByEventID(eventID uint) (int64, error)
}

type CleanupAuditStore interface {
	CreateRun(run *models.CleanupRun) error
	CreateError(cleanupErr *models.CleanupError) error
	GetRecentRuns(limit int) ([]models.CleanupRun, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

type CleanupOperatorStore interface {
	GetByID(id uint) (*models.Operator, error)
}

// ExpiryNotifier delivers the gallery-expiry warning. Delivery is best
// effort; failures are logged and never affect the purge.
type ExpiryNotifier interface {
	SendGalleryExpiryWarning(to, eventTitle string, expiresAt time.Time) error
}

// CleanupService purges expired galleries: storage objects, the cached
// album archive and the capture rows, then marks the event cleaned. Events
// are processed independently; one failure never aborts the batch.
type CleanupService struct {
	events        CleanupEventStore
	captures      CleanupCaptureStore
	audit         CleanupAuditStore
	operators     CleanupOperatorStore
	storage       storage.ObjectStorage
	notifier      ExpiryNotifier
	retentionDays int
	warningDays   int
	logger        *zap.Logger
	now           func() time.Time
}

func NewCleanupService(
	events CleanupEventStore,
	captures CleanupCaptureStore,
	audit CleanupAuditStore,
	operators CleanupOperatorStore,
	objectStorage storage.ObjectStorage,
	notifier ExpiryNotifier,
	retentionDays int,
	warningDays int,
	logger *zap.Logger,
) *CleanupService {
	return &CleanupService{
		events:        events,
		captures:      captures,
		audit:         audit,
		operators:     operators,
		storage:       objectStorage,
		notifier:      notifier,
		retentionDays: retentionDays,
		warningDays:   warningDays,
		logger:        logger,
		now:           time.Now,
	}
}

// Run executes one cleanup batch. The returned run summary is persisted
// regardless of per-event failures; a non-nil error means the batch itself
// could not run (fatal), not that some events failed.
func (s *CleanupService) Run(ctx context.Context) (*models.CleanupRun, error) {
	now := s.now().UTC()
	run := &models.CleanupRun{StartedAt: now}

	events, err := s.events.FindCleanupDue(now)
	if err != nil {
		run.Fatal = true
		run.Message = fmt.Sprintf("failed to query cleanup candidates: %v", err)
		run.FinishedAt = s.now().UTC()
		if auditErr := s.audit.CreateRun(run); auditErr != nil {
			s.logger.Error("failed to persist fatal cleanup run", zap.Error(auditErr))
		}
		return run, fmt.Errorf("cleanup batch failed: %w", err)
	}

	var eventErrors []models.CleanupError
	for i := range events {
		event := &events[i]
		run.Processed++

		if err := s.cleanupEvent(ctx, event, run); err != nil {
			run.Failed++
			s.logger.Warn("event cleanup failed",
				zap.Uint("event_id", event.ID),
				zap.String("title", event.Title),
				zap.Error(err),
			)
			eventErrors = append(eventErrors, models.CleanupError{
				EventID:    event.ID,
				EventTitle: event.Title,
				Message:    err.Error(),
			})
			continue
		}
		run.Succeeded++
	}

	s.sendExpiryWarnings(now)

	run.FinishedAt = s.now().UTC()
	if err := s.audit.CreateRun(run); err != nil {
		s.logger.Error("failed to persist cleanup run summary", zap.Error(err))
	} else {
		for i := range eventErrors {
			eventErrors[i].RunID = run.ID
			if err := s.audit.CreateError(&eventErrors[i]); err != nil {
				s.logger.Error("failed to persist cleanup error", zap.Error(err))
			}
		}
	}

	s.pruneAuditLog(now)

	s.logger.Info("cleanup batch finished",
		zap.Int("processed", run.Processed),
		zap.Int("succeeded", run.Succeeded),
		zap.Int("failed", run.Failed),
		zap.Int("photos_deleted", run.PhotosDeleted),
		zap.Int("archives_deleted", run.ArchivesDeleted),
	)
	return run, nil
}

const defaultRunHistoryLimit = 20

// RecentRuns returns the latest batch summaries for the admin surface.
func (s *CleanupService) RecentRuns(limit int) ([]models.CleanupRun, error) {
	if limit <= 0 {
		limit = defaultRunHistoryLimit
	}
	return s.audit.GetRecentRuns(limit)
}

func (s *CleanupService) cleanupEvent(ctx context.Context, event *models.Event, run *models.CleanupRun) error {
	prefix := capturePrefix(event.ID)
	deleted, err := s.storage.DeletePrefix(ctx, prefix)
	run.PhotosDeleted += deleted
	if err != nil {
		return fmt.Errorf("failed to purge photo storage: %w", err)
	}

	key := archiveKey(event.ID)
	if _, err := s.storage.Head(ctx, key); err == nil {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete album archive: %w", err)
		}
		run.ArchivesDeleted++
	} else if !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("failed to check album archive: %w", err)
	}

	if _, err := s.captures.DeleteByEventID(event.ID); err != nil {
		return fmt.Errorf("failed to delete capture records: %w", err)
	}

	if err := s.events.SetStatus(event.ID, models.EventStatusExpired, models.EventStatusCleaned); err != nil {
		return fmt.Errorf("failed to mark event cleaned: %w", err)
	}
	return nil
}

// sendExpiryWarnings emails operators whose galleries are about to be
// purged. Best effort only.
func (s *CleanupService) sendExpiryWarnings(now time.Time) {
	if s.notifier == nil || s.warningDays <= 0 {
		return
	}

	window := time.Duration(s.warningDays) * 24 * time.Hour
	events, err := s.events.FindGalleriesExpiringWithin(now, window)
	if err != nil {
		s.logger.Warn("failed to query expiring galleries", zap.Error(err))
		return
	}

	for i := range events {
		event := &events[i]
		operator, err := s.operators.GetByID(event.OperatorID)
		if err != nil {
			s.logger.Warn("failed to load operator for expiry warning",
				zap.Uint("event_id", event.ID), zap.Error(err))
			continue
		}
		if err := s.notifier.SendGalleryExpiryWarning(operator.Email, event.Title, *event.GalleryExpiresAt); err != nil {
			s.logger.Warn("failed to send gallery expiry warning",
				zap.Uint("event_id", event.ID), zap.Error(err))
			continue
		}
		if err := s.events.MarkExpiryWarned(event.ID, now); err != nil {
			s.logger.Warn("failed to mark expiry warning sent",
				zap.Uint("event_id", event.ID), zap.Error(err))
		}
	}
}

func (s *CleanupService) pruneAuditLog(now time.Time) {
	if s.retentionDays <= 0 {
		return
	}
	cutoff := now.AddDate(0, 0, -s.retentionDays)
	pruned, err := s.audit.PruneOlderThan(cutoff)
	if err != nil {
		s.logger.Warn("failed to prune cleanup audit log", zap.Error(err))
		return
	}
	if pruned > 0 {
		s.logger.Info("pruned cleanup audit log", zap.Int64("runs_removed", pruned))
	}
}

func capturePrefix(eventID uint) string {
	return fmt.Sprintf("events/%d/", eventID)
}

func archiveKey(eventID uint) string {
	return fmt.Sprintf("archives/%d/album.zip", eventID)
}
