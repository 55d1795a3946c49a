package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/pkg/storage"
)

const maxCaptureSize = 10 * 1024 * 1024 // 10MB

type CaptureEventStore interface {
	GetByID(id uint) (*models.Event, error)
	GetBySlug(slug string) (*models.Event, error)
}

type CaptureStore interface {
	Create(capture *models.Capture) error
	GetByEventID(eventID uint) ([]models.Capture, error)
}

// CaptureService records photo metadata after a slot has been claimed. The
// capture number must come from a successful reservation; the unique index
// on (event, number) rejects replays.
type CaptureService struct {
	captures CaptureStore
	events   CaptureEventStore
	storage  storage.ObjectStorage
	logger   *zap.Logger
}

func NewCaptureService(captures CaptureStore, events CaptureEventStore, objectStorage storage.ObjectStorage, logger *zap.Logger) *CaptureService {
	return &CaptureService{
		captures: captures,
		events:   events,
		storage:  objectStorage,
		logger:   logger,
	}
}

func (s *CaptureService) UploadCapture(ctx context.Context, eventID uint, captureNumber int, file *multipart.FileHeader) (*models.Capture, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}

	// The final capture may already have expired the event, so expired is
	// still uploadable; draft and cleaned are not.
	if event.Status == models.EventStatusDraft || event.Status == models.EventStatusCleaned {
		return nil, fmt.Errorf("event is %s: %w", event.Status, models.ErrPrecondition)
	}
	if captureNumber < 1 || captureNumber > event.CaptureCount {
		return nil, fmt.Errorf("capture number %d was never reserved: %w", captureNumber, models.ErrPrecondition)
	}
	if !isValidImageType(file.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("unsupported image type: %w", models.ErrPrecondition)
	}
	if file.Size > maxCaptureSize {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", maxCaptureSize, models.ErrPrecondition)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s%04d%s", capturePrefix(eventID), captureNumber, filepath.Ext(file.Filename))
	if err := s.storage.Upload(ctx, key, src, file.Header.Get("Content-Type")); err != nil {
		return nil, fmt.Errorf("failed to store capture: %w", err)
	}

	capture := &models.Capture{
		EventID:       eventID,
		CaptureNumber: captureNumber,
		FileName:      file.Filename,
		FileSize:      file.Size,
		MimeType:      file.Header.Get("Content-Type"),
		StorageKey:    key,
		CloudUploaded: true,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.captures.Create(capture); err != nil {
		// The row is the source of truth; drop the orphaned object.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned capture object",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	return capture, nil
}

// GetGalleryCaptures lists an event's captures for the attendee gallery,
// gated by the gallery token.
func (s *CaptureService) GetGalleryCaptures(eventSlug, galleryToken string) ([]models.Capture, error) {
	event, err := s.events.GetBySlug(eventSlug)
	if err != nil {
		return nil, err
	}
	if event.GalleryToken != galleryToken {
		return nil, fmt.Errorf("gallery token mismatch: %w", models.ErrPermission)
	}
	if event.Status == models.EventStatusCleaned {
		return nil, fmt.Errorf("gallery archived: %w", models.ErrPrecondition)
	}

	return s.captures.GetByEventID(event.ID)
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
