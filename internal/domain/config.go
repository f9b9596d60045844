package domain

// Config represents the main application configuration
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Revenue RevenueConfig `mapstructure:"revenue"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig holds the classification parameters
type EngineConfig struct {
	MissingFieldPolicy MissingFieldPolicy `mapstructure:"missing_field_policy"`

	// RehabThresholds are the minimum rehabilitation signals for ultra_high,
	// very_high, high, medium and low, strictly descending.
	RehabThresholds []int `mapstructure:"rehab_thresholds"`

	// BehaviorThresholds are the minimum tallies for high and medium.
	BehaviorThresholds []int `mapstructure:"behavior_thresholds"`
}

// RevenueConfig locates the rate table and optionally overrides its base rate
type RevenueConfig struct {
	RateTablePath string `mapstructure:"rate_table_path"`
	BasePerDiem   string `mapstructure:"base_per_diem"`
}

// CacheConfig represents the evaluation cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

// BatchConfig represents batch evaluation configuration
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	RedactIdentifiers bool   `mapstructure:"redact_identifiers"`
}

// DefaultRehabThresholds are the minimum signals per rehabilitation tier.
func DefaultRehabThresholds() []int { return []int{28, 22, 16, 9, 0} }

// DefaultBehaviorThresholds are the minimum tallies for high and medium.
func DefaultBehaviorThresholds() []int { return []int{3, 1} }

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MissingFieldPolicy: LowestSeverity,
		RehabThresholds:    DefaultRehabThresholds(),
		BehaviorThresholds: DefaultBehaviorThresholds(),
	}
}

// Validate checks the engine parameters.
func (c EngineConfig) Validate() error {
	if !c.MissingFieldPolicy.IsValid() {
		return ErrInvalidPolicy
	}
	if len(c.RehabThresholds) != len(RehabCategories()) || !strictlyDescending(c.RehabThresholds) {
		return ErrInvalidThresholds
	}
	if len(c.BehaviorThresholds) != len(BehaviorCategories())-1 || !strictlyDescending(c.BehaviorThresholds) {
		return ErrInvalidThresholds
	}
	return nil
}

func strictlyDescending(v []int) bool {
	for i := 1; i < len(v); i++ {
		if v[i] >= v[i-1] {
			return false
		}
	}
	return true
}
