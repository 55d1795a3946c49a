package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/repository"
	"github.com/pixbooth/pixbooth-backend/pkg/bcrypt"
	"github.com/pixbooth/pixbooth-backend/pkg/email"
	jwtPkg "github.com/pixbooth/pixbooth-backend/pkg/jwt"
)

const tokenExpiryReset = 15 * time.Minute

type AuthService struct {
	operatorRepo *repository.OperatorRepository
	emailService *email.EmailService
	jwtSecret    []byte
	jwtIssuer    string
	logger       *zap.Logger
}

func NewAuthService(operatorRepo *repository.OperatorRepository, emailService *email.EmailService, jwtSecret, jwtIssuer string, logger *zap.Logger) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		emailService: emailService,
		jwtSecret:    []byte(jwtSecret),
		jwtIssuer:    jwtIssuer,
		logger:       logger,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	exists, err := s.operatorRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already registered: %w", models.ErrConflict)
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	operator := &models.Operator{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		PlanTier: models.PlanFree,
	}

	if err := s.operatorRepo.Create(operator); err != nil {
		return nil, err
	}

	token, err := jwtPkg.GenerateToken(operator.Email, operator.ID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailService.SendWelcomeEmail(operator.Email, operator.FullName); err != nil {
			s.logger.Warn("welcome email failed", zap.String("email", operator.Email), zap.Error(err))
		}
	}()

	return &models.AuthResponse{
		Token:    token,
		Operator: *operator,
	}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	operator, err := s.operatorRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", models.ErrPermission)
	}

	if err := bcrypt.ComparePassword(operator.Password, req.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", models.ErrPermission)
	}

	token, err := jwtPkg.GenerateToken(operator.Email, operator.ID)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %v", err)
	}

	return &models.AuthResponse{
		Token:    token,
		Operator: *operator,
	}, nil
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails exist.
func (s *AuthService) ForgotPassword(emailAddr string) error {
	operator, err := s.operatorRepo.GetByEmail(emailAddr)
	if err != nil {
		return nil
	}

	claims := jwt.MapClaims{
		"sub":  operator.Email,
		"exp":  time.Now().Add(tokenExpiryReset).Unix(),
		"iat":  time.Now().Unix(),
		"iss":  s.jwtIssuer,
		"type": "password_reset",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	resetToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return err
	}

	return s.emailService.SendPasswordResetEmail(operator.Email, resetToken)
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	claims, err := jwtPkg.ValidateToken(token)
	if err != nil {
		return fmt.Errorf("invalid or expired token: %w", models.ErrPermission)
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != "password_reset" {
		return fmt.Errorf("wrong token type: %w", models.ErrPermission)
	}

	emailAddr, ok := claims["sub"].(string)
	if !ok {
		return fmt.Errorf("invalid token claims: %w", models.ErrPermission)
	}

	operator, err := s.operatorRepo.GetByEmail(emailAddr)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.HashPassword(newPassword)
	if err != nil {
		return err
	}

	operator.Password = hashedPassword
	return s.operatorRepo.Update(operator)
}
