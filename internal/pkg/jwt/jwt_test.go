package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestGenerateAndVerify(t *testing.T) {
	key := newKey(t)
	gen := NewGenerator(key, "booking-admin", "admin-api", "k1", time.Hour)
	ver := NewVerifier(&key.PublicKey, "booking-admin", "admin-api")

	tok, err := gen.Generate("ops@example.com", []string{RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	claims, err := ver.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, tok.JTI, claims.ID)
	assert.True(t, claims.IsAdmin())
	assert.True(t, claims.HasAnyRole())
	assert.False(t, claims.HasAnyRole("viewer"))
}

func TestVerify_Rejects(t *testing.T) {
	key := newKey(t)
	gen := NewGenerator(key, "booking-admin", "admin-api", "", time.Hour)
	tok, err := gen.Generate("ops@example.com", nil)
	require.NoError(t, err)

	_, err = NewVerifier(&key.PublicKey, "someone-else", "admin-api").Verify(tok.Value)
	assert.Error(t, err)

	_, err = NewVerifier(&key.PublicKey, "booking-admin", "other-api").Verify(tok.Value)
	assert.Error(t, err)

	_, err = NewVerifier(&newKey(t).PublicKey, "booking-admin", "admin-api").Verify(tok.Value)
	assert.Error(t, err)

	expired := NewGenerator(key, "booking-admin", "admin-api", "", -time.Minute)
	old, err := expired.Generate("ops@example.com", nil)
	require.NoError(t, err)
	_, err = NewVerifier(&key.PublicKey, "booking-admin", "admin-api").Verify(old.Value)
	assert.Error(t, err)
}

func TestLoadAndBuild(t *testing.T) {
	key := newKey(t)
	dir := t.TempDir()

	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}), 0o600))
	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix}), 0o600))

	cfg := Config{PrivPath: privPath, PubPath: pubPath, Issuer: "i", Audience: "a", TTL: time.Minute}
	require.True(t, cfg.Enabled())
	m, err := LoadAndBuild(cfg)
	require.NoError(t, err)

	tok, err := m.Generator.Generate("ops@example.com", nil)
	require.NoError(t, err)
	_, err = m.Verifier.Verify(tok.Value)
	assert.NoError(t, err)

	_, err = ParseRSAPrivateKey([]byte("not pem"))
	assert.Error(t, err)
}
