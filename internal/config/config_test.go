package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://dummyjson.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 0, cfg.Catalog.MaxRetries)
	assert.Equal(t, uint32(5), cfg.Catalog.BreakerFailures)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdle)
	assert.Equal(t, 5, cfg.View.PageSize)
	assert.Equal(t, 5, cfg.View.MaxVisible)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog:
  base_url: http://catalog.internal:9000
  max_retries: 2
  timeout: 3s
redis:
  enabled: true
  addr: redis:6379
view:
  page_size: 20
log:
  level: debug
  pretty: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.internal:9000", cfg.Catalog.BaseURL)
	assert.Equal(t, 2, cfg.Catalog.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.View.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "catalog-pager/0.1.0", cfg.Catalog.UserAgent, "unset keys keep defaults")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CATALOG_VIEW_PAGE_SIZE", "30")
	t.Setenv("CATALOG_SERVER_ADDR", ":9090")
	t.Setenv("CATALOG_CATALOG_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.View.PageSize)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"page size not allowed", map[string]string{"CATALOG_VIEW_PAGE_SIZE": "7"}},
		{"max visible zero", map[string]string{"CATALOG_VIEW_MAX_VISIBLE": "0"}},
		{"bad log level", map[string]string{"CATALOG_LOG_LEVEL": "trace"}},
		{"negative retries", map[string]string{"CATALOG_CATALOG_MAX_RETRIES": "-1"}},
		{"base url not a url", map[string]string{"CATALOG_CATALOG_BASE_URL": "catalog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestValidate_RedisRequiresAddr(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Redis.Addr = ""
	assert.NoError(t, cfg.Validate(), "addr is optional while redis is disabled")

	cfg.Redis.Enabled = true
	assert.Error(t, cfg.Validate())
}
