package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AdminGate guards mutation endpoints behind a bearer token. When no
// admin credential is configured the gate is disabled and requests pass
// through untouched.
type AdminGate struct {
	tokens  *TokenManager
	enabled bool
}

// NewAdminGate builds the middleware. enabled should be false when no
// admin password hash is configured.
func NewAdminGate(tokens *TokenManager, enabled bool) *AdminGate {
	return &AdminGate{tokens: tokens, enabled: enabled}
}

// Enabled reports whether the gate is active.
func (g *AdminGate) Enabled() bool {
	return g.enabled
}

// Handle validates the Authorization header when the gate is active.
func (g *AdminGate) Handle(c *fiber.Ctx) error {
	if !g.enabled {
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return apperrors.NewUnauthorized("bearer token required")
	}
	if _, err := g.tokens.ParseToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	return c.Next()
}
