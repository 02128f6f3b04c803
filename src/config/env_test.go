package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, "2000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
	assert.Zero(t, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.RateBurst)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("AUTH_RATE_PER_SEC", "0.5")
	t.Setenv("AUTH_RATE_BURST", "oops")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_SENTINELS", "s1:26379,s2:26379")

	cfg := Load()
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CorsOrigins)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 0.5, cfg.Auth.RatePerSecond)
	assert.Equal(t, 10, cfg.Auth.RateBurst)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, []string{"s1:26379", "s2:26379"}, cfg.Redis.Sentinels)
}
