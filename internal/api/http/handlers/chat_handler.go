package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/agent"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/api/dto"
	apperrors "github.com/meudayhegde/sprint-summary-chatbot/pkg/util/errorutil"
)

// ChatHandler exposes the conversational endpoint.
type ChatHandler struct {
	agent *agent.Agent
}

// NewChatHandler constructs the handler.
func NewChatHandler(a *agent.Agent) *ChatHandler {
	return &ChatHandler{agent: a}
}

// Ask handles POST /api/v1/chat.
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Question) == "" {
		return apperrors.NewValidationError("question required", nil)
	}

	answer, err := h.agent.Ask(c.UserContext(), req.Question)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": answer})
}
