package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_URL", "https://api.fatla.test/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.fatla.test", cfg.API.BaseURL)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.StaleTime)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DashboardStaleTime)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.MaxAge)
	assert.True(t, cfg.Session.CookieSecure)
	assert.False(t, cfg.Audit.Enabled)
}

func TestLoad_FallsBackToPublicAPIURL(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "http://localhost:5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing api url", env: map[string]string{"API_URL": "", "NEXT_PUBLIC_API_URL": ""}},
		{name: "relative api url", env: map[string]string{"API_URL": "api/v1"}},
		{name: "unknown cache backend", env: map[string]string{"API_URL": "http://x", "CACHE_BACKEND": "memcached"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_URL", "http://backend:8081")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_DASHBOARD_STALE_TIME", "1m")
	t.Setenv("IMAGE_HOSTS", "cdn.fatla.test, images.fatla.test,,")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.DashboardStaleTime)
	assert.Equal(t, []string{"cdn.fatla.test", "images.fatla.test"}, cfg.Server.ImageHosts)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
}
