package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

// ReservationEventStore is the slice of the event repository the
// reservation path needs.
type ReservationEventStore interface {
	GetByID(id uint) (*models.Event, error)
	MarkExpired(id uint, galleryExpiresAt time.Time) error
	CompareAndSwapCounters(id uint, expectCaptures, expectReserved int, set models.EventCounterUpdate) (bool, error)
}

// ReservationService claims capture slots. Every invocation is stateless;
// the only guard against concurrent claims is the conditional counter write.
// On a lost race the caller gets a retryable conflict result, never an
// internal retry.
type ReservationService struct {
	events           ReservationEventStore
	galleryGraceDays int
	logger           *zap.Logger
	now              func() time.Time
}

func NewReservationService(events ReservationEventStore, galleryGraceDays int, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		events:           events,
		galleryGraceDays: galleryGraceDays,
		logger:           logger,
		now:              time.Now,
	}
}

// Reserve claims the next capture slot for the event. The precondition
// checks run in a fixed order and each failure is a distinct result code.
func (s *ReservationService) Reserve(eventID uint) (*models.ReservationResult, error) {
	now := s.now().UTC()

	event, result, err := s.checkEvent(eventID, now)
	if result != nil || err != nil {
		return result, err
	}

	if event.CaptureCount >= event.PhotoLimit {
		return resultFor(event, models.ReservationLimitReached, "photo limit reached"), nil
	}

	newCount := event.CaptureCount + 1
	set := models.EventCounterUpdate{
		CaptureCount:  newCount,
		ReservedCount: event.ReservedCount,
		Analytics:     bumpAnalytics(event.Analytics, now),
		Status:        event.Status,
	}
	s.applyLimitExpiry(&set, event, newCount, now)

	ok, err := s.events.CompareAndSwapCounters(event.ID, event.CaptureCount, event.ReservedCount, set)
	if err != nil {
		return nil, fmt.Errorf("failed to claim slot for event %d: %w", event.ID, err)
	}
	if !ok {
		return resultFor(event, models.ReservationConflict, "another capture was recorded first, please retry"), nil
	}

	event.CaptureCount = newCount
	event.Status = set.Status
	return granted(event, newCount), nil
}

// ReserveBuffered claims a provisional slot by bumping reserved_count.
// The provisional number becomes real only after ConfirmReservation.
// Abandoned buffers are never reclaimed; they die with the event.
func (s *ReservationService) ReserveBuffered(eventID uint) (*models.ReservationResult, error) {
	now := s.now().UTC()

	event, result, err := s.checkEvent(eventID, now)
	if result != nil || err != nil {
		return result, err
	}

	if event.CaptureCount+event.ReservedCount >= event.PhotoLimit {
		return resultFor(event, models.ReservationLimitReached, "photo limit reached"), nil
	}

	newReserved := event.ReservedCount + 1
	set := models.EventCounterUpdate{
		CaptureCount:  event.CaptureCount,
		ReservedCount: newReserved,
		Analytics:     event.Analytics,
		Status:        event.Status,
	}

	ok, err := s.events.CompareAndSwapCounters(event.ID, event.CaptureCount, event.ReservedCount, set)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer slot for event %d: %w", event.ID, err)
	}
	if !ok {
		return resultFor(event, models.ReservationConflict, "another reservation was recorded first, please retry"), nil
	}

	event.ReservedCount = newReserved
	return granted(event, event.CaptureCount+newReserved), nil
}

// ConfirmReservation converts one buffered slot into a real capture,
// re-running the expiry checks.
func (s *ReservationService) ConfirmReservation(eventID uint) (*models.ReservationResult, error) {
	now := s.now().UTC()

	event, result, err := s.checkEvent(eventID, now)
	if result != nil || err != nil {
		return result, err
	}

	if event.ReservedCount <= 0 {
		return resultFor(event, models.ReservationNoneBuffered, "no buffered reservation to confirm"), nil
	}

	newCount := event.CaptureCount + 1
	set := models.EventCounterUpdate{
		CaptureCount:  newCount,
		ReservedCount: event.ReservedCount - 1,
		Analytics:     bumpAnalytics(event.Analytics, now),
		Status:        event.Status,
	}
	s.applyLimitExpiry(&set, event, newCount, now)

	ok, err := s.events.CompareAndSwapCounters(event.ID, event.CaptureCount, event.ReservedCount, set)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm slot for event %d: %w", event.ID, err)
	}
	if !ok {
		return resultFor(event, models.ReservationConflict, "another capture was recorded first, please retry"), nil
	}

	event.CaptureCount = newCount
	event.ReservedCount = set.ReservedCount
	event.Status = set.Status
	return granted(event, newCount), nil
}

// checkEvent runs the shared precondition chain: exists, active, started,
// not ended. A non-nil result means the claim stops there.
func (s *ReservationService) checkEvent(eventID uint, now time.Time) (*models.Event, *models.ReservationResult, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.ReservationResult{
				Code:    models.ReservationNotFound,
				Message: "event not found",
			}, nil
		}
		return nil, nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}

	if event.Status != models.EventStatusActive {
		return nil, resultFor(event, models.ReservationNotActive, "event is not active"), nil
	}
	if now.Before(event.StartDate) {
		return nil, resultFor(event, models.ReservationNotStarted, "event has not started yet"), nil
	}
	if now.After(event.EndDate) {
		// The transition is status-guarded in the store, so a racing
		// caller cannot re-stamp the gallery deadline.
		expiresAt := now.AddDate(0, 0, s.galleryGraceDays)
		if err := s.events.MarkExpired(event.ID, expiresAt); err != nil {
			return nil, nil, fmt.Errorf("failed to expire event %d: %w", event.ID, err)
		}
		s.logger.Info("event expired on reservation attempt",
			zap.Uint("event_id", event.ID),
			zap.Time("gallery_expires_at", expiresAt),
		)
		event.Status = models.EventStatusExpired
		return nil, resultFor(event, models.ReservationEnded, "event has ended"), nil
	}

	return event, nil, nil
}

// applyLimitExpiry folds the limit-reached transition into the same
// conditional write that records the final capture.
func (s *ReservationService) applyLimitExpiry(set *models.EventCounterUpdate, event *models.Event, newCount int, now time.Time) {
	if newCount >= event.PhotoLimit {
		set.Status = models.EventStatusExpired
		expiresAt := now.AddDate(0, 0, s.galleryGraceDays)
		set.GalleryExpiresAt = &expiresAt
	}
}

func bumpAnalytics(analytics models.EventAnalytics, now time.Time) models.EventAnalytics {
	analytics.TotalCaptures++
	capturedAt := now
	analytics.LastCaptureAt = &capturedAt
	analytics.LastCaptureHour = now.Hour()
	return analytics
}

func counters(event *models.Event) *models.EventCounters {
	return &models.EventCounters{
		CaptureCount: event.CaptureCount,
		PhotoLimit:   event.PhotoLimit,
		Status:       event.Status,
	}
}

func resultFor(event *models.Event, code models.ReservationCode, message string) *models.ReservationResult {
	return &models.ReservationResult{
		Code:    code,
		Message: message,
		Event:   counters(event),
	}
}

func granted(event *models.Event, captureNumber int) *models.ReservationResult {
	return &models.ReservationResult{
		Code:          models.ReservationGranted,
		CaptureNumber: captureNumber,
		Event:         counters(event),
	}
}
