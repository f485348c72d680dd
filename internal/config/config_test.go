package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, SourceKindCSV, cfg.Source.Kind)
	assert.Equal(t, 10*time.Minute, cfg.Source.CacheTTL())
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Location().String())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOURCE_KIND", "POSTGRES")
	t.Setenv("SOURCE_CACHE_TTL_SECONDS", "60")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceKindPostgres, cfg.Source.Kind)
	assert.Equal(t, time.Minute, cfg.Source.CacheTTL())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "redis db", key: "REDIS_DB", val: "zero"},
		{name: "source kind", key: "SOURCE_KIND", val: "gsheets"},
		{name: "timezone", key: "APP_TIMEZONE", val: "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDurationsFallBack(t *testing.T) {
	assert.Equal(t, time.Duration(0), SourceConfig{}.CacheTTL())
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, time.Hour, AuthConfig{}.TokenTTL())
	assert.Equal(t, time.UTC, AppConfig{Timezone: "nowhere"}.Location())
}
