package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: test-assistant\n"))
	require.NoError(t, err)

	assert.Equal(t, "test-assistant", cfg.App.Name)
	assert.Equal(t, DefaultCatalogBaseURL, cfg.Catalog.BaseURL)
	assert.Equal(t, DefaultSourceLabel, cfg.Catalog.SourceLabel)
	assert.Equal(t, 10000, cfg.Catalog.Timeout)
	assert.Equal(t, 2, cfg.Catalog.MaxRetries)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Cart.Store)
	assert.Equal(t, 0.08, cfg.Cart.TaxRate)
	assert.Equal(t, 5.99, cfg.Cart.Shipping)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_ValuesAndWorkerDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
catalog:
  base_url: http://catalog.local/
  max_retries: 4
cache:
  enabled: true
  ttl: 60
database:
  redis:
    address: localhost:6379
cart:
  store: redis
  tax_rate: 0.1
workers:
  process-shopping-message:
    enabled: true
    max_jobs_active: 20
  add-to-cart:
    enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 4, cfg.Catalog.MaxRetries)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.TTL)
	assert.Equal(t, "redis", cfg.Cart.Store)
	assert.Equal(t, 0.1, cfg.Cart.TaxRate)

	psm := GetWorkerConfig(cfg, "process-shopping-message")
	assert.Equal(t, 20, psm.MaxJobsActive)
	assert.Equal(t, 30000, psm.Timeout)
	assert.Equal(t, 3, psm.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "add-to-cart"))
	assert.True(t, IsWorkerEnabled(cfg, "not-configured"))
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CATALOG_URL", "http://from-env.example")

	cfg, err := LoadFromFile(writeConfig(t, "catalog:\n  base_url: ${TEST_CATALOG_URL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://from-env.example", cfg.Catalog.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"cache without redis", "cache:\n  enabled: true\n"},
		{"redis cart without redis", "cart:\n  store: redis\n"},
		{"unknown cart store", "cart:\n  store: postgres\n"},
		{"negative tax", "cart:\n  tax_rate: -0.5\n"},
		{"camunda without broker", "camunda:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, int64(1500), GetDuration(1500).Milliseconds())
}
