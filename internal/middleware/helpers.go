// internal/middleware/helpers.go
package middleware

import (
	"activity-booking-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// GetClaims returns the claims stored by Auth.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
