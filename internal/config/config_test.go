package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "personal_hub"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
default_author_name = "Barkin Celiker"
cv_root_path = "/tmp/personal-hub/cv"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/personal-hub.log"
sentry_enabled = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "personal_hub"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
auth_cookie_name = "personal-hub-auth"
default_author_name = "Barkin Celiker"
login_rate_limit_allowed_per_min = 10
cv_root_path = "/data/personal-hub/cv"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o644))
	return path
}

func TestLoad_development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)

	// defaults applied when not set
	assert.Equal(t, "personal-hub-auth", cfg.AuthCookieName)
	assert.Equal(t, 15, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, 10, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_unknownEnv(t *testing.T) {
	cfg, err := Load("staging", writeTestConfig(t))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_missingFile(t *testing.T) {
	cfg, err := Load("development", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
