package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, 10, cfg.Pagination.DefaultSize)
	assert.Equal(t, "id,asc", cfg.Pagination.DefaultSort)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, time.Minute, cfg.RateLimit.Period)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 365*24*time.Hour, cfg.Security.HSTSMaxAge)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 9090
database:
  driver: postgres
  dsn: postgres://localhost/usuarios
pagination:
  defaultSize: 20
security:
  allowedOrigins:
    - https://app.example.com
  hstsMaxAge: 0s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	t.Setenv("UA_SERVER_PORT", "7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/usuarios", cfg.Database.DSN)
	assert.Equal(t, 20, cfg.Pagination.DefaultSize)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Security.AllowedOrigins)
	assert.Zero(t, cfg.Security.HSTSMaxAge)
}

func TestValidateConfig(t *testing.T) {
	t.Run("driver inválido", func(t *testing.T) {
		cfg := Default()
		cfg.Database.Driver = "oracle"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("backend de rate limit inválido", func(t *testing.T) {
		cfg := Default()
		cfg.RateLimit.Backend = "memcached"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("tls sem certificados nem domínios", func(t *testing.T) {
		cfg := Default()
		cfg.Server.TLS = true
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("max size menor que default", func(t *testing.T) {
		cfg := Default()
		cfg.Pagination.MaxSize = 5
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("origem cors sem esquema", func(t *testing.T) {
		cfg := Default()
		cfg.Security.AllowedOrigins = []string{"app.example.com"}
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("defaults válidos", func(t *testing.T) {
		assert.NoError(t, validateConfig(Default()))
	})
}
