package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"personashop/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 720*time.Hour, cfg.CartTTL)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.LoginRateWindow)
	assert.True(t, cfg.SeedOnStart)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.EventsEnabled())
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SEED_ON_START", "false")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.False(t, cfg.SeedOnStart)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: \":9090\"\nGENAI_MODEL: gemini-test\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "gemini-test", cfg.GenAIModel)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := config.Config{JWTSecret: "x", DatabaseDriver: "postgres", JWTTTL: time.Hour, LoginRateLimit: 1}
	require.NoError(t, valid.Validate())

	noSecret := valid
	noSecret.JWTSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "JWT_SECRET")

	badDriver := valid
	badDriver.DatabaseDriver = "mysql"
	assert.ErrorContains(t, badDriver.Validate(), "mysql")
}
