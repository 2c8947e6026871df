package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = strings.Repeat("s", 32)

var keys = []string{
	"DB_DSN", "SERVER_PORT", "SESSION_SECRET", "APP_ENV", "CLOUD_NAME", "API_KEY",
	"API_SECRET", "UPLOAD_DIR", "MAX_UPLOAD_MB", "REDIS_ADDR", "LOGIN_RATE_LIMIT_PER_MINUTE",
	"SHUTDOWN_TIMEOUT_SECONDS", "ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_CITY",
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, env[k])
	}
}

func TestFromEnvDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":         "sqlite://tracker.db",
		"SESSION_SECRET": secret,
	})

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, int64(10<<20), cfg.MaxUpload)
	assert.Equal(t, 20, cfg.LoginRateLimit)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.UseCloudinary())
}

func TestFromEnvOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":         "postgres://app@db/tracker",
		"SESSION_SECRET": secret,
		"APP_ENV":        "production",
		"CLOUD_NAME":     "afford",
		"API_KEY":        "key",
		"API_SECRET":     "shh",
		"MAX_UPLOAD_MB":  "2",
		"REDIS_ADDR":     "redis:6379",
		"ADMIN_USERNAME": "root",
		"ADMIN_PASSWORD": "rootpass",
		"ADMIN_CITY":     "indore",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.True(t, cfg.UseCloudinary())
	assert.Equal(t, int64(2<<20), cfg.MaxUpload)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.EqualValues(t, "indore", cfg.AdminCity)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing dsn", env: map[string]string{"SESSION_SECRET": secret}, wantErr: "DB_DSN"},
		{name: "missing secret", env: map[string]string{"DB_DSN": "x"}, wantErr: "SESSION_SECRET is not set"},
		{name: "short secret", env: map[string]string{"DB_DSN": "x", "SESSION_SECRET": "short"}, wantErr: "at least 32 bytes"},
		{name: "bad integer", env: map[string]string{"DB_DSN": "x", "SESSION_SECRET": secret, "MAX_UPLOAD_MB": "ten"}, wantErr: "MAX_UPLOAD_MB"},
		{name: "zero rate limit", env: map[string]string{"DB_DSN": "x", "SESSION_SECRET": secret, "LOGIN_RATE_LIMIT_PER_MINUTE": "0"}, wantErr: "LOGIN_RATE_LIMIT_PER_MINUTE"},
		{name: "unknown admin city", env: map[string]string{"DB_DSN": "x", "SESSION_SECRET": secret, "ADMIN_CITY": "delhi"}, wantErr: "ADMIN_CITY"},
		{name: "admin password without username", env: map[string]string{"DB_DSN": "x", "SESSION_SECRET": secret, "ADMIN_PASSWORD": "p"}, wantErr: "set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
