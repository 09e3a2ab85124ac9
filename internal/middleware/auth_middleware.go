// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"activity-booking-service/internal/pkg/jwt"
	"activity-booking-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// TokenValidator turns a bearer token into claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware builds the guard. A nil validator disables
// authentication: every route is open.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

func (m *AuthMiddleware) Enabled() bool {
	return m.validator != nil
}

// Auth is the base authentication middleware that validates JWT tokens
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole middleware that requires user to have at least one of the specified roles
// MUST be used after Auth() middleware
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		claims, ok := GetClaims(c)
		if !ok {
			response.Forbidden(c, "no roles found - authentication required")
			return
		}
		if !claims.HasAnyRole(roles...) {
			response.Forbidden(c, "insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly returns middlewares for admin-only routes (Auth + RequireRole)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(jwt.RoleAdmin),
	}
}

// extractToken extracts Bearer token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Browsers cannot set headers on WebSocket upgrades.
	if c.Request.Method == http.MethodGet {
		return c.Query("token")
	}
	return ""
}
