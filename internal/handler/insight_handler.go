package handler

import (
	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InsightHandler struct {
	insightService service.InsightService
}

func NewInsightHandler(insightService service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetInsights returns AI observations and suggested actions for the owner's
// business. Degrades to empty lists when the model is unavailable.
// GET /api/v1/ai/insights
func (h *InsightHandler) GetInsights(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	insights, err := h.insightService.GetInsights(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(insights)
}

// ChatRequest represents the assistant question body
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat answers a free-form question grounded in the owner's business data
// POST /api/v1/ai/chat
func (h *InsightHandler) Chat(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	answer, err := h.insightService.Chat(c.Context(), userID, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"answer": answer})
}
