package service

import (
	"fmt"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/repository"
	"github.com/pixbooth/pixbooth-backend/pkg/bcrypt"
)

type OperatorService struct {
	operatorRepo *repository.OperatorRepository
}

func NewOperatorService(operatorRepo *repository.OperatorRepository) *OperatorService {
	return &OperatorService{operatorRepo: operatorRepo}
}

func (s *OperatorService) GetProfile(operatorID uint) (*models.Operator, error) {
	return s.operatorRepo.GetByID(operatorID)
}

func (s *OperatorService) ChangePassword(operatorID uint, req models.ChangePasswordRequest) error {
	operator, err := s.operatorRepo.GetByID(operatorID)
	if err != nil {
		return err
	}

	if err := bcrypt.ComparePassword(operator.Password, req.CurrentPassword); err != nil {
		return fmt.Errorf("current password is incorrect: %w", models.ErrPermission)
	}

	hashedPassword, err := bcrypt.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	operator.Password = hashedPassword
	return s.operatorRepo.Update(operator)
}
