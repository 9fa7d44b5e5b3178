package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8780", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Len(t, cfg.AllowedOrigins, 2)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("API_PREFIX", "/v1")
	t.Setenv("ACCESS_TOKEN_MINUTES", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://grid.example.com")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://grid.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Debug)
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("FLAG", "not-a-bool")
	assert.True(t, getEnvAsBool("FLAG", true))

	t.Setenv("FLAG", "false")
	assert.False(t, getEnvAsBool("FLAG", true))

	assert.True(t, getEnvAsBool("UNSET_FLAG", true))
}
