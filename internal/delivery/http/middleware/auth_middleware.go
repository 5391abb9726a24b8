package middleware

import (
	"strings"

	"mockmate/internal/pkg/jwt"
	"mockmate/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// CtxUserIDKey is the locals key under which the authenticated user id
// is stored for downstream handlers.
const CtxUserIDKey = "user_id"

type AuthMiddleware struct {
	jwtService jwt.Service
}

func NewAuthMiddleware(jwtService jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth validates the bearer access token and stores the subject
// in locals. Requests without a valid token never reach the handler.
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return response.Error(c, fiber.StatusUnauthorized, response.MessageMissingToken, nil)
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return response.Error(c, fiber.StatusUnauthorized, response.MessageInvalidToken, nil)
		}

		userID, err := m.jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, response.MessageInvalidToken, nil)
		}

		c.Locals(CtxUserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(c fiber.Ctx) string {
	if v, ok := c.Locals(CtxUserIDKey).(string); ok {
		return v
	}
	return ""
}
