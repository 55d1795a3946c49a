package models

import (
	"time"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// PlanPurchase records a Stripe checkout for a plan upgrade. The row is
// created pending when the session is opened and completed by the webhook.
type PlanPurchase struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	OperatorID      uint           `json:"operator_id" gorm:"not null;index"`
	PlanTier        PlanTier       `json:"plan_tier" gorm:"not null"`
	Amount          float64        `json:"amount" gorm:"not null"`
	StripeSessionID string         `json:"-" gorm:"uniqueIndex;not null"`
	Status          PurchaseStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}
