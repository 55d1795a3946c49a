package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/pkg/qrcode"
	"github.com/pixbooth/pixbooth-backend/pkg/utils"
)

const slugLength = 10

type EventStore interface {
	Create(event *models.Event) (*models.Event, error)
	GetByID(id uint) (*models.Event, error)
	GetBySlug(slug string) (*models.Event, error)
	GetByOperatorID(operatorID uint) ([]models.Event, error)
	SlugExists(slug string) (bool, error)
	Update(event *models.Event) error
	Delete(id uint) error
}

// EventService covers the operator surface: creating draft events with
// plan-derived limits, publishing them, and the QR entry point.
type EventService struct {
	eventRepo EventStore
	qrService *qrcode.QRService
}

func NewEventService(eventRepo EventStore, qrService *qrcode.QRService) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		qrService: qrService,
	}
}

// CreateEvent snapshots the plan limits onto a new draft event. Limits
// never change afterwards, even if the plan catalog does.
func (s *EventService) CreateEvent(operatorID uint, req models.CreateEventRequest) (*models.Event, error) {
	plan, ok := models.PlanByTier(req.Plan)
	if !ok {
		return nil, fmt.Errorf("unknown plan %q: %w", req.Plan, models.ErrPrecondition)
	}

	slug, err := s.uniqueSlug()
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		OperatorID:    operatorID,
		Title:         req.Title,
		Slug:          slug,
		GalleryToken:  uuid.NewString(),
		PlanTier:      plan.Tier,
		PhotoLimit:    plan.PhotoLimit,
		ValidityDays:  plan.ValidityDays,
		HasCloudAlbum: plan.HasCloudAlbum,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.EventStatusDraft,
	}

	return s.eventRepo.Create(event)
}

// PublishEvent moves a draft event to active and stamps the schedule. This
// is the only operator-initiated lifecycle transition.
func (s *EventService) PublishEvent(eventID, operatorID uint) (*models.Event, error) {
	event, err := s.ownedEvent(eventID, operatorID)
	if err != nil {
		return nil, err
	}

	if !event.Status.CanTransition(models.EventStatusActive) {
		return nil, fmt.Errorf("event is %s, only draft events can be published: %w",
			event.Status, models.ErrPrecondition)
	}

	now := time.Now().UTC()
	if event.StartDate.IsZero() {
		event.StartDate = now
	}
	if event.EndDate.IsZero() {
		event.EndDate = event.StartDate.AddDate(0, 0, event.ValidityDays)
	}
	event.Status = models.EventStatusActive

	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetEvent(eventID, operatorID uint) (*models.Event, error) {
	return s.ownedEvent(eventID, operatorID)
}

func (s *EventService) GetOperatorEvents(operatorID uint) ([]models.Event, error) {
	return s.eventRepo.GetByOperatorID(operatorID)
}

func (s *EventService) GetEventBySlug(slug string) (*models.Event, error) {
	return s.eventRepo.GetBySlug(slug)
}

// DeleteEvent removes draft and cleaned events only. Active and expired
// events still own storage objects; those go through cleanup first.
func (s *EventService) DeleteEvent(eventID, operatorID uint) error {
	event, err := s.ownedEvent(eventID, operatorID)
	if err != nil {
		return err
	}

	if event.Status == models.EventStatusActive || event.Status == models.EventStatusExpired {
		return fmt.Errorf("event is %s, wait for cleanup before deleting: %w",
			event.Status, models.ErrPrecondition)
	}

	return s.eventRepo.Delete(eventID)
}

// JoinQRCode renders the QR PNG attendees scan to reach the event.
func (s *EventService) JoinQRCode(eventID, operatorID uint, size int) ([]byte, error) {
	event, err := s.ownedEvent(eventID, operatorID)
	if err != nil {
		return nil, err
	}
	return s.qrService.GenerateJoinCode(event.Slug, size)
}

func (s *EventService) ownedEvent(eventID, operatorID uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OperatorID != operatorID {
		return nil, fmt.Errorf("event %d belongs to another operator: %w", eventID, models.ErrPermission)
	}
	return event, nil
}

func (s *EventService) uniqueSlug() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		slug := utils.GenerateRandomString(slugLength)
		exists, err := s.eventRepo.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique slug: %w", models.ErrInternal)
}
