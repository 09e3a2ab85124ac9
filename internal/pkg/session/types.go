// internal/pkg/session/types.go
package session

import (
	"context"
	"time"
)

// Revoker remembers logged-out token ids until the tokens would have
// expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginLimiter throttles failed login attempts per client and email.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (allowed bool, remaining int64, err error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

const (
	maxLoginAttempts = int64(5)
	loginWindow      = 15 * time.Minute
)
