package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TG-Note-App/game-be/internal/initdata"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INITDATA_SCHEME", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.InitDataMaxAge)
	assert.Equal(t, "player-snapshots", cfg.Minio.Bucket)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.InitDataScheme)
	assert.False(t, cfg.DevMode)
	assert.False(t, cfg.SnapshotsEnabled())
	assert.Empty(t, cfg.AllowedAdmins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("INITDATA_SCHEME", "webapp-hmac")
	t.Setenv("INITDATA_MAX_AGE", "1h")
	t.Setenv("TELEGRAM_ALLOWED_ADMINS", "1, 2,,3")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, initdata.SchemeWebAppHMAC, cfg.InitDataScheme)
	assert.Equal(t, time.Hour, cfg.InitDataMaxAge)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedAdmins)
	assert.True(t, cfg.SnapshotsEnabled())
	assert.True(t, cfg.Minio.UseSSL)
	assert.True(t, cfg.DevMode)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GAME_URL=https://example.test/game\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GAME_URL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/game", cfg.GameURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"INITDATA_SCHEME", "md5"},
		{"INITDATA_MAX_AGE", "soon"},
		{"INITDATA_MAX_AGE", "-1h"},
		{"TELEGRAM_ALLOWED_ADMINS", "1,bob"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnknownSchemeIsConfigurationError(t *testing.T) {
	t.Setenv("INITDATA_SCHEME", "md5")
	_, err := Load(noEnvFile(t))
	assert.ErrorIs(t, err, initdata.ErrConfiguration)
}
