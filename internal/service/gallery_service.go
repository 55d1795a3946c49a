package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/pkg/storage"
)

type GalleryEventStore interface {
	GetByID(id uint) (*models.Event, error)
	SetArchiveBuiltAt(id uint, builtAt time.Time) error
}

type GalleryCaptureStore interface {
	GetCloudUploaded(eventID uint) ([]models.Capture, error)
}

type AlbumArchive struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
	PhotoCount  int       `json:"photoCount,omitempty"`
}

// GalleryService builds and serves the downloadable ZIP album. The cache is
// purely time-based: an archive younger than archiveMaxAge is re-signed and
// returned as is, so photos uploaded inside the window stay invisible until
// the archive goes stale. Known limitation, kept on purpose.
type GalleryService struct {
	events        GalleryEventStore
	captures      GalleryCaptureStore
	storage       storage.ObjectStorage
	archiveMaxAge time.Duration
	urlTTL        time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewGalleryService(
	events GalleryEventStore,
	captures GalleryCaptureStore,
	objectStorage storage.ObjectStorage,
	archiveMaxAge time.Duration,
	urlTTL time.Duration,
	logger *zap.Logger,
) *GalleryService {
	return &GalleryService{
		events:        events,
		captures:      captures,
		storage:       objectStorage,
		archiveMaxAge: archiveMaxAge,
		urlTTL:        urlTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// GetAlbumArchive validates access and returns a presigned download URL,
// rebuilding the archive if the cached copy is missing or stale.
func (s *GalleryService) GetAlbumArchive(ctx context.Context, eventID uint, galleryToken string) (*AlbumArchive, error) {
	now := s.now().UTC()

	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.GalleryToken != galleryToken {
		return nil, fmt.Errorf("gallery token mismatch: %w", models.ErrPermission)
	}
	if !event.HasCloudAlbum {
		return nil, fmt.Errorf("plan does not include a cloud album: %w", models.ErrPrecondition)
	}
	if event.Status == models.EventStatusCleaned {
		return nil, fmt.Errorf("gallery archived: %w", models.ErrPrecondition)
	}
	if event.GalleryExpiresAt != nil && now.After(*event.GalleryExpiresAt) {
		return nil, fmt.Errorf("gallery expired: %w", models.ErrPrecondition)
	}

	key := archiveKey(event.ID)

	if info, err := s.storage.Head(ctx, key); err == nil {
		if now.Sub(info.LastModified) < s.archiveMaxAge {
			url, err := s.storage.PresignGet(ctx, key, s.urlTTL)
			if err != nil {
				return nil, fmt.Errorf("failed to sign archive URL: %w", err)
			}
			return &AlbumArchive{DownloadURL: url, ExpiresAt: now.Add(s.urlTTL)}, nil
		}
	} else if !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("archive freshness check failed, rebuilding",
			zap.Uint("event_id", event.ID), zap.Error(err))
	}

	return s.buildArchive(ctx, event, key, now)
}

func (s *GalleryService) buildArchive(ctx context.Context, event *models.Event, key string, now time.Time) (*AlbumArchive, error) {
	captures, err := s.captures.GetCloudUploaded(event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures for event %d: %w", event.ID, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	added := 0

	for i := range captures {
		capture := &captures[i]
		data, err := s.fetchCapture(ctx, capture)
		if err != nil {
			// Per-photo failures are skipped, never fatal to the album.
			s.logger.Warn("skipping photo in album build",
				zap.Uint("event_id", event.ID),
				zap.Int("capture_number", capture.CaptureNumber),
				zap.Error(err),
			)
			continue
		}

		name := fmt.Sprintf("photo_%04d%s", capture.CaptureNumber, filepath.Ext(capture.FileName))
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", name, err)
		}
		added++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if added == 0 {
		return nil, fmt.Errorf("no photos available for download: %w", models.ErrNotFound)
	}

	// Overwrites any stale cached copy.
	if err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "application/zip"); err != nil {
		return nil, fmt.Errorf("failed to upload archive: %w", err)
	}
	if err := s.events.SetArchiveBuiltAt(event.ID, now); err != nil {
		s.logger.Warn("failed to record archive build time",
			zap.Uint("event_id", event.ID), zap.Error(err))
	}

	url, err := s.storage.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign archive URL: %w", err)
	}

	s.logger.Info("album archive built",
		zap.Uint("event_id", event.ID),
		zap.Int("photos", added),
		zap.Int("skipped", len(captures)-added),
	)
	return &AlbumArchive{DownloadURL: url, ExpiresAt: now.Add(s.urlTTL), PhotoCount: added}, nil
}

func (s *GalleryService) fetchCapture(ctx context.Context, capture *models.Capture) ([]byte, error) {
	rc, err := s.storage.Download(ctx, capture.StorageKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
