package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/api/dto"
	"github.com/meudayhegde/sprint-summary-chatbot/internal/auth"
	apperrors "github.com/meudayhegde/sprint-summary-chatbot/pkg/util/errorutil"
)

// TokenHandler mints service tokens for callers holding the issue key.
type TokenHandler struct {
	tokens   *auth.TokenManager
	issueKey string
}

// NewTokenHandler constructs the handler. A nil token manager means auth
// is disabled and token issuance is refused.
func NewTokenHandler(tokens *auth.TokenManager, issueKey string) *TokenHandler {
	return &TokenHandler{tokens: tokens, issueKey: issueKey}
}

// Issue handles POST /auth/token.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	if h.tokens == nil || h.issueKey == "" {
		return apperrors.NewUnavailable("token issuance disabled")
	}

	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Caller == "" {
		return apperrors.NewValidationError("caller required", nil)
	}
	if subtle.ConstantTimeCompare([]byte(req.IssueKey), []byte(h.issueKey)) != 1 {
		return apperrors.NewUnauthorized("invalid issue key")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.Caller)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}
