package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
	"github.com/pixbooth/pixbooth-backend/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		validator:    validator,
	}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	operatorID := c.Locals("operatorID").(uint)

	event, err := h.eventService.CreateEvent(operatorID, req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, true), "Event created successfully"))
}

func (h *EventHandler) PublishEvent(c *fiber.Ctx) error {
	eventID, err := h.eventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}
	operatorID := c.Locals("operatorID").(uint)

	event, err := h.eventService.PublishEvent(eventID, operatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, true), "Event published"))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	eventID, err := h.eventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}
	operatorID := c.Locals("operatorID").(uint)

	event, err := h.eventService.GetEvent(eventID, operatorID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, true), "Event retrieved successfully"))
}

func (h *EventHandler) GetOperatorEvents(c *fiber.Ctx) error {
	operatorID := c.Locals("operatorID").(uint)

	events, err := h.eventService.GetOperatorEvents(operatorID)
	if err != nil {
		return fail(c, err)
	}

	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, models.NewEventResponse(&events[i], true))
	}

	return c.JSON(models.SuccessResponse(responses, "Events retrieved successfully"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := h.eventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}
	operatorID := c.Locals("operatorID").(uint)

	if err := h.eventService.DeleteEvent(eventID, operatorID); err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Event deleted successfully"))
}

// GetEventBySlug is the public join endpoint behind the QR code. It never
// exposes the gallery token.
func (h *EventHandler) GetEventBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	event, err := h.eventService.GetEventBySlug(slug)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, false), "Event retrieved successfully"))
}

func (h *EventHandler) GetJoinQRCode(c *fiber.Ctx) error {
	eventID, err := h.eventID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}
	operatorID := c.Locals("operatorID").(uint)

	size := c.QueryInt("size", 256)
	if size < 64 || size > 2048 {
		size = 256
	}

	png, err := h.eventService.JoinQRCode(eventID, operatorID, size)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h *EventHandler) eventID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
