package config

import (
	"fmt"

	"github.com/chriskuehl/tap2tap/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a fully resolved configuration. It runs after flags and
// environment variables have been applied, so it also guards values that
// never passed through the schema.
func Validate(cfg *Config) error {
	switch cfg.Plan {
	case PlanLeading, PlanTrailing:
	default:
		return &ValidationError{
			Field:   "plan",
			Message: fmt.Sprintf("must be %q or %q, got %q", PlanLeading, PlanTrailing, cfg.Plan),
		}
	}

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be debug, info, warn or error, got %q", cfg.LogLevel),
		}
	}

	if cfg.Exec && cfg.Shell == "" {
		return &ValidationError{
			Field:   "shell",
			Message: "must not be empty in exec mode",
		}
	}

	return nil
}
