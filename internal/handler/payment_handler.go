package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(models.AllPlans(), "Plans retrieved successfully"))
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	operatorID := c.Locals("operatorID").(uint)
	tier := models.PlanTier(c.Params("tier"))

	url, err := h.paymentService.CreateCheckoutSession(operatorID, tier)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.CheckoutResponse{CheckoutURL: url}, "Checkout session created"))
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")

	if err := h.paymentService.HandleWebhook(c.Body(), signature); err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Webhook processed"))
}

func (h *PaymentHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	operatorID := c.Locals("operatorID").(uint)

	purchases, err := h.paymentService.GetPurchaseHistory(operatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(purchases, "Purchase history retrieved successfully"))
}
