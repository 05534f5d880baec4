package config

import (
	"github.com/chriskuehl/tap2tap/internal/logging"
	"github.com/chriskuehl/tap2tap/internal/source"
)

// Plan placements.
const (
	PlanLeading  = "leading"
	PlanTrailing = "trailing"
)

// Default configuration values.
const (
	DefaultPlan     = PlanLeading
	DefaultShell    = source.DefaultShell
	DefaultLogLevel = logging.DefaultLevel
)

// Default returns a Config with every default applied, for runs without a
// config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Plan == "" {
		cfg.Plan = DefaultPlan
	}
	if cfg.RequirePlan == nil {
		requirePlan := true
		cfg.RequirePlan = &requirePlan
	}
	if cfg.Shell == "" {
		cfg.Shell = DefaultShell
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
