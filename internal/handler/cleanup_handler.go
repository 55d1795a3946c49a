package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixbooth/pixbooth-backend/internal/models"
	"github.com/pixbooth/pixbooth-backend/internal/service"
)

type CleanupHandler struct {
	cleanupService *service.CleanupService
}

func NewCleanupHandler(cleanupService *service.CleanupService) *CleanupHandler {
	return &CleanupHandler{
		cleanupService: cleanupService,
	}
}

// TriggerCleanup runs a cleanup batch on demand, outside the schedule.
// Per-event failures still count as a successful batch.
func (h *CleanupHandler) TriggerCleanup(c *fiber.Ctx) error {
	run, err := h.cleanupService.Run(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.Response{
			Success: false,
			Error:   "cleanup batch failed",
			Data:    run,
		})
	}

	return c.JSON(models.SuccessResponse(run, "Cleanup batch finished"))
}

// GetCleanupHistory lists recent batch summaries.
func (h *CleanupHandler) GetCleanupHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	runs, err := h.cleanupService.RecentRuns(limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(runs, "Cleanup history retrieved successfully"))
}
