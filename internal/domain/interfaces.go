package domain

import (
	"github.com/shopspring/decimal"
)

// RateTable supplies case-mix indexes and rate adjustments
type RateTable interface {
	Version() string
	BasePerDiem() decimal.Decimal
	CaseMixIndex(code string) (decimal.Decimal, error)
	Adjustments() []RateAdjustment
}

// Evaluator computes scores, classification and revenue, and evaluates the
// care-area trigger catalog
type Evaluator interface {
	Evaluate(a *Assessment, opts EvaluationOptions) (*Evaluation, error)
	EvaluateTriggers(a *Assessment) ([]CareAreaTrigger, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetEngineConfig() EngineConfig
	Reload() error
	Validate() error
}
