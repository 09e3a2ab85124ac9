// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin may mutate every resource.
const RoleAdmin = "admin"

// Claims represents the JWT claims. Subject carries the operator email.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims contain a specific role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether any of roles is granted. No roles means any
// authenticated identity.
func (c *Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

func (c *Claims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
