package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 60, cfg.Reports.CacheTTLSeconds)
	assert.Equal(t, time.Minute, cfg.Reports.CacheTTL())
	assert.Equal(t, 1000, cfg.Reports.ExportChunkSize)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  host: 127.0.0.1
  port: 9090
database:
  url: postgres://localhost/crm
reports:
  cache_ttl_seconds: 120
  export_chunk_size: 500
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/crm", cfg.Database.URL)
	assert.Equal(t, 2*time.Minute, cfg.Reports.CacheTTL())
	assert.Equal(t, 500, cfg.Reports.ExportChunkSize)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://env/crm")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "30")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "postgres://env/crm", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Reports.CacheTTLSeconds)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "-5")
	t.Setenv("EXPORT_CHUNK_SIZE", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Reports.CacheTTLSeconds)
	assert.Equal(t, 1000, cfg.Reports.ExportChunkSize)
}

func TestMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
