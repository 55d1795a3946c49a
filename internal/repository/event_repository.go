package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	result := r.db.Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetBySlug(slug string) (*models.Event, error) {
	var event models.Event
	err := r.db.Where("slug = ?", slug).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %q: %w", slug, models.ErrNotFound)
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByOperatorID(operatorID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("operator_id = ?", operatorID).Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}

// CompareAndSwapCounters writes the counter pair, analytics and lifecycle
// fields in one conditional UPDATE. The write applies only if the row's
// counters still match the values the caller read; false means a concurrent
// writer won and the caller holds a stale snapshot.
func (r *EventRepository) CompareAndSwapCounters(id uint, expectCaptures, expectReserved int, set models.EventCounterUpdate) (bool, error) {
	analyticsJSON, err := json.Marshal(set.Analytics)
	if err != nil {
		return false, fmt.Errorf("failed to marshal analytics: %w", err)
	}

	updates := map[string]interface{}{
		"capture_count":  set.CaptureCount,
		"reserved_count": set.ReservedCount,
		"analytics":      string(analyticsJSON),
		"status":         set.Status,
		"updated_at":     time.Now(),
	}
	if set.GalleryExpiresAt != nil {
		updates["gallery_expires_at"] = *set.GalleryExpiresAt
	}

	result := r.db.Model(&models.Event{}).
		Where("id = ? AND capture_count = ? AND reserved_count = ?", id, expectCaptures, expectReserved).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkExpired transitions an active event to expired and stamps the gallery
// deadline. The status guard makes repeated calls no-ops, so the deadline is
// set at most once.
func (r *EventRepository) MarkExpired(id uint, galleryExpiresAt time.Time) error {
	return r.db.Model(&models.Event{}).
		Where("id = ? AND status = ?", id, models.EventStatusActive).
		Updates(map[string]interface{}{
			"status":             models.EventStatusExpired,
			"gallery_expires_at": galleryExpiresAt,
		}).Error
}

// SetStatus applies a guarded transition; rows in a different state are
// left untouched.
func (r *EventRepository) SetStatus(id uint, from, to models.EventStatus) error {
	return r.db.Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to).Error
}

func (r *EventRepository) SetArchiveBuiltAt(id uint, builtAt time.Time) error {
	return r.db.Model(&models.Event{}).
		Where("id = ?", id).
		Update("archive_built_at", builtAt).Error
}

func (r *EventRepository) MarkExpiryWarned(id uint, warnedAt time.Time) error {
	return r.db.Model(&models.Event{}).
		Where("id = ?", id).
		Update("expiry_warned_at", warnedAt).Error
}

// FindCleanupDue returns expired events whose gallery deadline has passed.
// Cleaned events never match, which is what makes cleanup idempotent.
func (r *EventRepository) FindCleanupDue(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("status = ? AND gallery_expires_at IS NOT NULL AND gallery_expires_at < ?", models.EventStatusExpired, now).
		Find(&events).Error
	return events, err
}

// FindGalleriesExpiringWithin returns expired events whose gallery deadline
// falls inside the warning window and that have not been warned yet.
func (r *EventRepository) FindGalleriesExpiringWithin(now time.Time, window time.Duration) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("status = ? AND expiry_warned_at IS NULL AND gallery_expires_at BETWEEN ? AND ?",
			models.EventStatusExpired, now, now.Add(window)).
		Find(&events).Error
	return events, err
}
