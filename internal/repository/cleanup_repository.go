package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type CleanupRepository struct {
	db *gorm.DB
}

func NewCleanupRepository(db *gorm.DB) *CleanupRepository {
	return &CleanupRepository{db: db}
}

func (r *CleanupRepository) CreateRun(run *models.CleanupRun) error {
	return r.db.Create(run).Error
}

func (r *CleanupRepository) CreateError(cleanupErr *models.CleanupError) error {
	return r.db.Create(cleanupErr).Error
}

func (r *CleanupRepository) GetRecentRuns(limit int) ([]models.CleanupRun, error) {
	var runs []models.CleanupRun
	err := r.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// PruneOlderThan enforces the audit retention window; runs and their error
// rows past the cutoff are removed. Returns the number of runs deleted.
func (r *CleanupRepository) PruneOlderThan(cutoff time.Time) (int64, error) {
	if err := r.db.
		Where("run_id IN (?)", r.db.Model(&models.CleanupRun{}).Select("id").Where("started_at < ?", cutoff)).
		Delete(&models.CleanupError{}).Error; err != nil {
		return 0, err
	}

	result := r.db.Where("started_at < ?", cutoff).Delete(&models.CleanupRun{})
	return result.RowsAffected, result.Error
}
