package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("STORAGE_BASE_URL", "https://storage.example.com")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Empty(t, cfg.DBUrl)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BASE_URL", "https://storage.example.com")
	t.Setenv("STORAGE_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("SESSION_IDLE_TTL", "30m")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.StorageTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("STORAGE_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{StorageBaseURL: "http://x", StorageTimeout: time.Second}},
		{name: "missing storage", cfg: Config{StorageTimeout: time.Second}, wantErr: "STORAGE_BASE_URL is required"},
		{name: "zero timeout", cfg: Config{StorageBaseURL: "http://x"}, wantErr: "STORAGE_TIMEOUT must be positive"},
		{name: "production without secret", cfg: Config{Environment: "production", StorageBaseURL: "http://x", StorageTimeout: time.Second}, wantErr: "JWT_SECRET is required in production"},
		{name: "production with secret", cfg: Config{Environment: "production", StorageBaseURL: "http://x", StorageTimeout: time.Second, JWTSecret: "s3cret"}},
		{name: "development without secret", cfg: Config{Environment: "development", StorageBaseURL: "http://x", StorageTimeout: time.Second}},
		{name: "negative ttl", cfg: Config{StorageBaseURL: "http://x", StorageTimeout: time.Second, SessionIdleTTL: -time.Minute}, wantErr: "SESSION_IDLE_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env       string
		level     string
		wantLevel slog.Level
		wantJSON  bool
	}{
		{env: "development", level: "debug", wantLevel: slog.LevelDebug},
		{env: "production", level: "", wantLevel: slog.LevelInfo, wantJSON: true},
		{env: "", level: "WARN", wantLevel: slog.LevelWarn},
		{env: "production", level: "error", wantLevel: slog.LevelError, wantJSON: true},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.env, tt.level)
			assert.True(t, logger.Enabled(context.Background(), tt.wantLevel))
			assert.False(t, logger.Enabled(context.Background(), tt.wantLevel-1))

			logger.Log(context.Background(), tt.wantLevel, "hello")
			out := buf.String()
			assert.Contains(t, out, "guestlist-editor")
			assert.Equal(t, tt.wantJSON, strings.HasPrefix(out, "{"))
		})
	}
}
