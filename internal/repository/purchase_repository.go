package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(purchase *models.PlanPurchase) error {
	return r.db.Create(purchase).Error
}

func (r *PurchaseRepository) GetBySessionID(sessionID string) (*models.PlanPurchase, error) {
	var purchase models.PlanPurchase
	err := r.db.Where("stripe_session_id = ?", sessionID).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("purchase for session %q: %w", sessionID, models.ErrNotFound)
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) GetByOperatorID(operatorID uint) ([]models.PlanPurchase, error) {
	var purchases []models.PlanPurchase
	err := r.db.Where("operator_id = ?", operatorID).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) Update(purchase *models.PlanPurchase) error {
	return r.db.Save(purchase).Error
}
