package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
)

type CaptureHandler struct {
	captureService *service.CaptureService
}

func NewCaptureHandler(captureService *service.CaptureService) *CaptureHandler {
	return &CaptureHandler{
		captureService: captureService,
	}
}

// UploadCapture stores the photo for a previously claimed capture number.
func (h *CaptureHandler) UploadCapture(c *fiber.Ctx) error {
	eventID, err := strconv.ParseUint(c.Params("eventId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	captureNumber, err := strconv.Atoi(c.FormValue("capture_number"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid capture number"))
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Photo file is required"))
	}

	capture, err := h.captureService.UploadCapture(c.UserContext(), uint(eventID), captureNumber, file)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.NewCaptureResponse(capture), "Capture uploaded successfully"))
}

func (h *CaptureHandler) GetGalleryCaptures(c *fiber.Ctx) error {
	slug := c.Params("slug")
	galleryToken := c.Query("token")

	captures, err := h.captureService.GetGalleryCaptures(slug, galleryToken)
	if err != nil {
		return fail(c, err)
	}

	responses := make([]models.CaptureResponse, 0, len(captures))
	for i := range captures {
		responses = append(responses, models.NewCaptureResponse(&captures[i]))
	}

	return c.JSON(models.SuccessResponse(responses, "Captures retrieved successfully"))
}
