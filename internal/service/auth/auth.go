// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"activity-booking-service/internal/domain/auth"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/jwt"
	"activity-booking-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = &xerrors.Error{Kind: xerrors.ErrUnauthorized, Msg: "invalid email or password"}

// AdminCredentials is the single configured operator account.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

type AuthService struct {
	admin     AdminCredentials
	generator *jwt.Generator
	verifier  *jwt.Verifier
	revoker   session.Revoker
	limiter   session.LoginLimiter
	logger    *zap.Logger
}

func NewAuthService(
	admin AdminCredentials,
	tokens *jwt.Manager,
	revoker session.Revoker,
	limiter session.LoginLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		admin:     admin,
		generator: tokens.Generator,
		verifier:  tokens.Verifier,
		revoker:   revoker,
		limiter:   limiter,
		logger:    logger,
	}
}

// Login checks the admin credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, req.IPAddress, email)
	if err != nil {
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, &xerrors.Error{Kind: xerrors.ErrRateLimited, Msg: "too many login attempts, try again later"}
	}

	if s.admin.PasswordHash == "" || email != strings.ToLower(s.admin.Email) {
		s.logger.Info("login rejected", zap.String("email", email), zap.Int64("remaining_attempts", remaining))
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("email", email), zap.Int64("remaining_attempts", remaining))
		return nil, errInvalidCredentials
	}

	if err := s.limiter.ResetLoginAttempts(ctx, req.IPAddress, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	roles := []string{jwt.RoleAdmin}
	tok, err := s.generator.Generate(email, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("operator logged in",
		zap.String("email", email),
		zap.String("jti", tok.JTI),
	)
	return &auth.LoginResponse{
		AccessToken: tok.Value,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
		Operator:    auth.Operator{Email: email, Roles: roles},
	}, nil
}

// ValidateToken verifies the signature and rejects logged-out tokens.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, err.Error())
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, &xerrors.Error{Kind: xerrors.ErrUnauthorized, Msg: "token has been revoked"}
	}
	return claims, nil
}

// Logout revokes the token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("operator logged out",
		zap.String("email", claims.Subject),
		zap.String("jti", claims.ID),
	)
	return nil
}

func (s *AuthService) Me(claims *jwt.Claims) auth.Operator {
	return auth.Operator{Email: claims.Subject, Roles: claims.Roles}
}
