package service

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/repository"
	"github.com/pixbooth/pixbooth-backend/pkg/payment"
)

// PaymentService sells plan upgrades through Stripe checkout. The purchase
// row is created pending and completed by the webhook, which also bumps the
// operator's tier.
type PaymentService struct {
	stripeService *payment.StripeService
	operatorRepo  *repository.OperatorRepository
	purchaseRepo  *repository.PurchaseRepository
	priceIDs      map[string]string
	logger        *zap.Logger
}

func NewPaymentService(
	stripeService *payment.StripeService,
	operatorRepo *repository.OperatorRepository,
	purchaseRepo *repository.PurchaseRepository,
	priceIDs map[string]string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		stripeService: stripeService,
		operatorRepo:  operatorRepo,
		purchaseRepo:  purchaseRepo,
		priceIDs:      priceIDs,
		logger:        logger,
	}
}

func (s *PaymentService) CreateCheckoutSession(operatorID uint, tier models.PlanTier) (string, error) {
	plan, ok := models.PlanByTier(tier)
	if !ok {
		return "", fmt.Errorf("unknown plan %q: %w", tier, models.ErrPrecondition)
	}
	if plan.Price == 0 {
		return "", fmt.Errorf("plan %q needs no checkout: %w", tier, models.ErrPrecondition)
	}

	priceID := s.priceIDs[string(tier)]
	if priceID == "" {
		return "", fmt.Errorf("no price configured for plan %q: %w", tier, models.ErrPrecondition)
	}

	operator, err := s.operatorRepo.GetByID(operatorID)
	if err != nil {
		return "", err
	}

	session, err := s.stripeService.CreateCheckoutSession(operator.Email, priceID, map[string]string{
		"operator_id": fmt.Sprintf("%d", operator.ID),
		"plan_tier":   string(tier),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	purchase := &models.PlanPurchase{
		OperatorID:      operator.ID,
		PlanTier:        tier,
		Amount:          plan.Price,
		StripeSessionID: session.ID,
		Status:          models.PurchasePending,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return "", err
	}

	return session.URL, nil
}

func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := s.stripeService.ConstructWebhookEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("webhook verification failed: %w", models.ErrPermission)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	purchase, err := s.purchaseRepo.GetBySessionID(session.ID)
	if err != nil {
		return err
	}
	if purchase.Status == models.PurchaseCompleted {
		return nil
	}

	purchase.Status = models.PurchaseCompleted
	if err := s.purchaseRepo.Update(purchase); err != nil {
		return err
	}

	operator, err := s.operatorRepo.GetByID(purchase.OperatorID)
	if err != nil {
		return err
	}
	operator.PlanTier = purchase.PlanTier
	if err := s.operatorRepo.Update(operator); err != nil {
		return err
	}

	s.logger.Info("plan purchase completed",
		zap.Uint("operator_id", operator.ID),
		zap.String("plan", string(purchase.PlanTier)),
	)
	return nil
}

func (s *PaymentService) GetPurchaseHistory(operatorID uint) ([]models.PlanPurchase, error) {
	return s.purchaseRepo.GetByOperatorID(operatorID)
}
