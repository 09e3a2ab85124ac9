// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
	"time"
)

type Config struct {
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string
}

// Enabled reports whether both key paths are configured.
func (c Config) Enabled() bool {
	return c.PrivPath != "" && c.PubPath != ""
}

type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

func LoadAndBuild(cfg Config) (*Manager, error) {
	priv, err := LoadRSAPrivateKeyFromPEM(cfg.PrivPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key from %s: %w", cfg.PrivPath, err)
	}

	pub, err := LoadRSAPublicKeyFromPEM(cfg.PubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key from %s: %w", cfg.PubPath, err)
	}

	return &Manager{
		Generator: NewGenerator(priv, cfg.Issuer, cfg.Audience, cfg.KID, cfg.TTL),
		Verifier:  NewVerifier(pub, cfg.Issuer, cfg.Audience),
	}, nil
}
