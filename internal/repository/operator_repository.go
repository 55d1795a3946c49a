package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(operator *models.Operator) error {
	return r.db.Create(operator).Error
}

func (r *OperatorRepository) GetByID(id uint) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.First(&operator, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("operator %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return &operator, nil
}

func (r *OperatorRepository) GetByEmail(email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.Where("email = ?", email).First(&operator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("operator %q: %w", email, models.ErrNotFound)
		}
		return nil, err
	}
	return &operator, nil
}

func (r *OperatorRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Operator{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *OperatorRepository) Update(operator *models.Operator) error {
	return r.db.Save(operator).Error
}
