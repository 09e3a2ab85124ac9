package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "STORE_DRIVER", "CORS_ORIGINS", "AVAILABILITY_CACHE_TTL", "JWT_PRIVATE_KEY_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.AvailabilityCacheTTL)
	assert.False(t, cfg.JWT.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AVAILABILITY_CACHE_TTL", "2m")
	t.Setenv("ADMIN_EMAIL", "Ops@Example.com")

	cfg := Load()

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Minute, cfg.AvailabilityCacheTTL)
	assert.Equal(t, "ops@example.com", cfg.AdminEmail)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("AVAILABILITY_CACHE_TTL", "soon")

	assert.Equal(t, 30*time.Second, Load().AvailabilityCacheTTL)
}
