package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltc-mds-engine/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mds-engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, domain.DefaultEngineConfig(), m.GetEngineConfig())
	assert.Equal(t, domain.LowestSeverity, cfg.Engine.MissingFieldPolicy)
	assert.Equal(t, []int{28, 22, 16, 9, 0}, cfg.Engine.RehabThresholds)
	assert.Equal(t, []int{3, 1}, cfg.Engine.BehaviorThresholds)
	assert.Empty(t, cfg.Revenue.RateTablePath)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, 0, cfg.Batch.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Logging.RedactIdentifiers)
	assert.Empty(t, m.ConfigFileUsed())

	assert.NoError(t, m.Validate())
}

func TestNewManager_File(t *testing.T) {
	path := writeConfig(t, `
engine:
  missing_field_policy: highest_severity
  rehab_thresholds: [30, 24, 18, 10, 0]
revenue:
  base_per_diem: "260.50"
cache:
  max_entries: 25
logging:
  level: debug
  format: json
  redact_identifiers: true
`)

	m, err := NewManager(path)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, path, m.ConfigFileUsed())
	assert.Equal(t, domain.HighestSeverity, cfg.Engine.MissingFieldPolicy)
	assert.Equal(t, []int{30, 24, 18, 10, 0}, cfg.Engine.RehabThresholds)
	assert.Equal(t, []int{3, 1}, cfg.Engine.BehaviorThresholds)
	assert.Equal(t, "260.50", cfg.Revenue.BasePerDiem)
	assert.Equal(t, 25, cfg.Cache.MaxEntries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.RedactIdentifiers)
	assert.NoError(t, m.Validate())
}

func TestNewManager_MissingExplicitFile(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MDS_ENGINE_LOGGING_LEVEL", "warn")
	t.Setenv("MDS_ENGINE_CACHE_MAX_ENTRIES", "50")
	t.Setenv("MDS_ENGINE_BATCH_WORKERS", "3")
	t.Setenv("MDS_ENGINE_REVENUE_RATE_TABLE_PATH", "/srv/rates/2025.yaml")

	path := writeConfig(t, "logging:\n  level: debug\n")
	m, err := NewManager(path)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, "warn", cfg.Logging.Level, "environment wins over the file")
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, "/srv/rates/2025.yaml", cfg.Revenue.RateTablePath)
}

func TestManager_Set(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	require.NoError(t, m.Set("batch.workers", 8))
	require.NoError(t, m.Set("logging.format", "json"))

	assert.Equal(t, 8, m.GetConfig().Batch.Workers)
	assert.Equal(t, "json", m.GetConfig().Logging.Format)

	require.NoError(t, m.Reload())
	assert.Equal(t, 0, m.GetConfig().Batch.Workers, "reload discards overrides")
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
		is     error
	}{
		{"bad policy", func(c *domain.Config) { c.Engine.MissingFieldPolicy = "guess" }, domain.ErrInvalidPolicy},
		{"rehab not descending", func(c *domain.Config) { c.Engine.RehabThresholds = []int{28, 28, 16, 9, 0} }, domain.ErrInvalidThresholds},
		{"behavior count", func(c *domain.Config) { c.Engine.BehaviorThresholds = []int{3} }, domain.ErrInvalidThresholds},
		{"base not a number", func(c *domain.Config) { c.Revenue.BasePerDiem = "lots" }, nil},
		{"base not positive", func(c *domain.Config) { c.Revenue.BasePerDiem = "0" }, nil},
		{"negative cache", func(c *domain.Config) { c.Cache.MaxEntries = -1 }, nil},
		{"negative workers", func(c *domain.Config) { c.Batch.Workers = -2 }, nil},
		{"log level", func(c *domain.Config) { c.Logging.Level = "chatty" }, nil},
		{"log format", func(c *domain.Config) { c.Logging.Format = "xml" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager("")
			require.NoError(t, err)
			tt.mutate(m.GetConfig())

			err = m.Validate()
			require.Error(t, err)
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Validate() = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "mds-engine.yaml")
	require.NoError(t, WriteDefault(path, false))

	m, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultEngineConfig(), m.GetEngineConfig())
	assert.Equal(t, 1000, m.GetConfig().Cache.MaxEntries)

	assert.Error(t, WriteDefault(path, false), "existing file is kept")
	assert.NoError(t, WriteDefault(path, true))
}
