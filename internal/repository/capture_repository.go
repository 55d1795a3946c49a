package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type CaptureRepository struct {
	db *gorm.DB
}

func NewCaptureRepository(db *gorm.DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

// Create inserts the capture row. The unique (event_id, capture_number)
// index rejects replays of an already-used slot; that case surfaces as
// models.ErrConflict.
func (r *CaptureRepository) Create(capture *models.Capture) error {
	err := r.db.Create(capture).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("capture %d for event %d already recorded: %w",
				capture.CaptureNumber, capture.EventID, models.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *CaptureRepository) GetByEventID(eventID uint) ([]models.Capture, error) {
	var captures []models.Capture
	err := r.db.
		Where("event_id = ?", eventID).
		Order("capture_number ASC").
		Find(&captures).Error
	return captures, err
}

// GetCloudUploaded returns the captures eligible for the album archive,
// in capture order.
func (r *CaptureRepository) GetCloudUploaded(eventID uint) ([]models.Capture, error) {
	var captures []models.Capture
	err := r.db.
		Where("event_id = ? AND cloud_uploaded = ?", eventID, true).
		Order("capture_number ASC").
		Find(&captures).Error
	return captures, err
}

// DeleteByEventID removes every capture of an event and reports how many
// rows went away.
func (r *CaptureRepository) DeleteByEventID(eventID uint) (int64, error) {
	result := r.db.Where("event_id = ?", eventID).Delete(&models.Capture{})
	return result.RowsAffected, result.Error
}
