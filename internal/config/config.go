package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ltc-mds-engine/internal/domain"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MDS_ENGINE_LOGGING_LEVEL.
	EnvPrefix = "MDS_ENGINE"
	// FileName is the configuration file looked up when no explicit path is given.
	FileName = "mds-engine"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	path   string
	config *domain.Config
}

// NewManager creates a new configuration manager. An empty path searches the
// working directory, ./config and /etc/mds-engine for mds-engine.yaml; a
// missing file there is not an error. An explicit path must exist.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from defaults, the file and the environment
func (m *Manager) loadConfig() error {
	v := viper.New()

	if m.path != "" {
		v.SetConfigFile(m.path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mds-engine/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if m.path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	engine := domain.DefaultEngineConfig()
	v.SetDefault("engine.missing_field_policy", string(engine.MissingFieldPolicy))
	v.SetDefault("engine.rehab_thresholds", engine.RehabThresholds)
	v.SetDefault("engine.behavior_thresholds", engine.BehaviorThresholds)

	// Empty path means the embedded table
	v.SetDefault("revenue.rate_table_path", "")
	v.SetDefault("revenue.base_per_diem", "")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", 1000)

	// Zero means one worker per CPU
	v.SetDefault("batch.workers", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.redact_identifiers", false)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetEngineConfig returns the classification parameters
func (m *Manager) GetEngineConfig() domain.EngineConfig {
	return m.config.Engine
}

// ConfigFileUsed returns the file the configuration was read from, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// Set overrides a single key, e.g. from a command-line flag, and re-decodes.
func (m *Manager) Set(key string, value any) error {
	m.v.Set(key, value)
	config := &domain.Config{}
	if err := m.v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	m.config = config
	return nil
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if err := config.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if config.Revenue.BasePerDiem != "" {
		base, err := decimal.NewFromString(config.Revenue.BasePerDiem)
		if err != nil {
			return fmt.Errorf("invalid base per diem %q: %w", config.Revenue.BasePerDiem, err)
		}
		if !base.IsPositive() {
			return fmt.Errorf("base per diem must be positive: %s", base)
		}
	}

	if config.Cache.MaxEntries < 0 {
		return fmt.Errorf("invalid cache size: %d", config.Cache.MaxEntries)
	}
	if config.Batch.Workers < 0 {
		return fmt.Errorf("invalid batch worker count: %d", config.Batch.Workers)
	}

	if _, err := logrus.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	return nil
}

var _ domain.ConfigManager = (*Manager)(nil)
