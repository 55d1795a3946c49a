package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
)

type GalleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
	}
}

type albumRequest struct {
	GalleryToken string `json:"galleryToken"`
}

// GetAlbumArchive returns a presigned URL for the event's ZIP album.
func (h *GalleryHandler) GetAlbumArchive(c *fiber.Ctx) error {
	eventID, err := strconv.ParseUint(c.Params("eventId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req albumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if req.GalleryToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Gallery token is required"))
	}

	archive, err := h.galleryService.GetAlbumArchive(c.UserContext(), uint(eventID), req.GalleryToken)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(archive, "Album archive ready"))
}
