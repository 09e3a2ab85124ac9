// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	Ttl      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		Ttl:      ttl,
	}
}

// Token is a signed access token with its id and expiry.
type Token struct {
	Value     string
	JTI       string
	ExpiresAt time.Time
}

// Generate signs an RS256 access token for subject.
func (g *Generator) Generate(subject string, roles []string) (*Token, error) {
	if g.priv == nil {
		return nil, fmt.Errorf("jwt generator has nil private key")
	}

	now := time.Now()
	expiresAt := now.Add(g.Ttl)
	jti := ulid.Make().String()

	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   subject,
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Token{Value: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}
