package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/idea-evaluator/internal/models"
	"alfredoptarigan/idea-evaluator/internal/services"
)

type ResultHandler struct {
	pipeline services.PipelineService
}

func NewResultHandler(pipeline services.PipelineService) *ResultHandler {
	return &ResultHandler{pipeline: pipeline}
}

// HandleGetResult handles GET /result/:id. Results are served only once the
// job reached a terminal state; until then callers get a 409 and should
// poll the progress endpoint.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	jobID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	response, err := h.pipeline.Results(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	switch models.JobStatus(response.Status) {
	case models.JobCompleted, models.JobFailed:
		return c.JSON(response)
	default:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"id":     response.ID,
			"status": response.Status,
			"error":  "job has not finished yet",
		})
	}
}
