package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
	"github.com/pixbooth/pixbooth-backend/pkg/utils"
)

type OperatorHandler struct {
	operatorService *service.OperatorService
	validator       *utils.Validator
}

func NewOperatorHandler(operatorService *service.OperatorService, validator *utils.Validator) *OperatorHandler {
	return &OperatorHandler{
		operatorService: operatorService,
		validator:       validator,
	}
}

func (h *OperatorHandler) GetMyProfile(c *fiber.Ctx) error {
	operatorID := c.Locals("operatorID").(uint)

	operator, err := h.operatorService.GetProfile(operatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(operator, "Profile retrieved successfully"))
}

func (h *OperatorHandler) ChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	operatorID := c.Locals("operatorID").(uint)
	if err := h.operatorService.ChangePassword(operatorID, req); err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Password changed successfully"))
}
