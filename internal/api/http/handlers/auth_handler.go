package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AuthHandler issues admin tokens when the gate is configured.
type AuthHandler struct {
	tokens       *auth.TokenManager
	passwordHash string
}

// NewAuthHandler constructs the handler. An empty passwordHash disables
// login entirely.
func NewAuthHandler(tokens *auth.TokenManager, passwordHash string) *AuthHandler {
	return &AuthHandler{tokens: tokens, passwordHash: passwordHash}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if h.passwordHash == "" {
		return apperrors.NewNotFound("Admin login")
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return apperrors.NewValidationError("password required")
	}
	if err := auth.ComparePassword(h.passwordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt,
	})
}
