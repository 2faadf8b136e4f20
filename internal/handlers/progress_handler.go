package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/idea-evaluator/internal/services"
)

type ProgressHandler struct {
	pipeline services.PipelineService
}

func NewProgressHandler(pipeline services.PipelineService) *ProgressHandler {
	return &ProgressHandler{pipeline: pipeline}
}

// HandleGetProgress handles GET /progress/:id
func (h *ProgressHandler) HandleGetProgress(c *fiber.Ctx) error {
	idParam := c.Params("id")
	jobID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	progress, err := h.pipeline.Progress(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(progress)
}
