package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	return h.handle(c, h.reservationService.Reserve)
}

func (h *ReservationHandler) ReserveBuffered(c *fiber.Ctx) error {
	return h.handle(c, h.reservationService.ReserveBuffered)
}

func (h *ReservationHandler) ConfirmReservation(c *fiber.Ctx) error {
	return h.handle(c, h.reservationService.ConfirmReservation)
}

func (h *ReservationHandler) handle(c *fiber.Ctx, claim func(uint) (*models.ReservationResult, error)) error {
	eventID, err := strconv.ParseUint(c.Params("eventId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	result, err := claim(uint(eventID))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(reservationStatus(result.Code)).JSON(models.NewReservationResponse(result))
}

func reservationStatus(code models.ReservationCode) int {
	switch code {
	case models.ReservationGranted:
		return fiber.StatusOK
	case models.ReservationNotFound:
		return fiber.StatusNotFound
	case models.ReservationConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusUnprocessableEntity
}
