// Package config provides loading and validation of the tap2tap config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/chriskuehl/tap2tap/internal/schema"
)

// FileNames are the config files looked up in the working directory, in order.
var FileNames = []string{".tap2tap.yaml", ".tap2tap.yml", ".tap2tap.toml"}

// Config holds the settings that can come from a config file. Every field
// can also be set by a flag or a TAP2TAP_* environment variable.
type Config struct {
	Plan        string `json:"plan,omitempty"`
	RequirePlan *bool  `json:"require_plan,omitempty"`
	StripANSI   bool   `json:"strip_ansi,omitempty"`
	Exec        bool   `json:"exec,omitempty"`
	Shell       string `json:"shell,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
	Summary     bool   `json:"summary,omitempty"`
	MetricsFile string `json:"metrics_file,omitempty"`
	SpoolDir    string `json:"spool_dir,omitempty"`
}

// Trailing reports whether the plan goes after the body.
func (c *Config) Trailing() bool {
	return c.Plan == PlanTrailing
}

// PlanRequired reports whether a missing top-level plan is a mismatch.
func (c *Config) PlanRequired() bool {
	return c.RequirePlan == nil || *c.RequirePlan
}

// Find returns the first config file present in dir, or "" if there is none.
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads a YAML or TOML config file, validates it against the config
// schema and applies defaults. Unknown keys are reported as warnings.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(path, data)
}

// Parse is Load for data already in memory. The format is chosen by the
// extension of path: ".toml" is TOML, anything else YAML (which covers JSON).
func Parse(path string, data []byte) (*Config, []string, error) {
	doc, err := toJSON(path, data)
	if err != nil {
		return nil, nil, err
	}

	if err := schema.ValidateConfig(doc); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, warnings, err := LoadWithWarnings(doc)
	if err != nil {
		return nil, warnings, err
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// toJSON decodes YAML or TOML into a generic document and re-encodes it as
// JSON, the form the schema and the Config struct tags describe.
func toJSON(path string, data []byte) ([]byte, error) {
	var raw map[string]any
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config file: %w", err)
	}
	return doc, nil
}
