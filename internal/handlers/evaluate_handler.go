package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/idea-evaluator/internal/models"
	"alfredoptarigan/idea-evaluator/internal/services"
)

type EvaluateHandler struct {
	pipeline services.PipelineService
}

func NewEvaluateHandler(pipeline services.PipelineService) *EvaluateHandler {
	return &EvaluateHandler{pipeline: pipeline}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluateHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.IdeasPath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ideas_path is required",
		})
	}

	if len(req.Rubric) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "rubric is required",
		})
	}

	resp, err := h.pipeline.StartJob(req)
	if err != nil {
		var fatal *models.FatalJobError
		if errors.As(err, &fatal) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fatal.Reason,
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Return job ID immediately
	return c.Status(fiber.StatusAccepted).JSON(resp)
}
