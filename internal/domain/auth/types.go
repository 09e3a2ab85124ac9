// internal/domain/auth/types.go
package auth

import "time"

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=1"`
	IPAddress string `json:"-"`
}

// Operator is the authenticated caller.
type Operator struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Operator    Operator  `json:"operator"`
}
