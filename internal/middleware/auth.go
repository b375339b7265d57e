// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"log"
	"strings"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/services/auth"
	"lumbung/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates the bearer token and stores the claims in the request
// context under "claims".
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims, err := m.authService.Authenticate(c.UserContext(), tokenString)
	if err != nil {
		if de, ok := apperrors.As(err); ok {
			return response.Error(c, fiber.StatusUnauthorized, de.Code, de.Message)
		}
		log.Printf("Authentication lookup failed: %v", err)
		return response.ServerError(c, "internal server error")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok || claims == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		log.Printf("Access denied: user %d has role %s", claims.UserID, claims.Role)
		return response.Forbidden(c, "Insufficient permissions")
	}
}
