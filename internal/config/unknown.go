package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings decodes a JSON config document and returns any unknown
// field warnings.
func LoadWithWarnings(data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, detectUnknownFields(data), nil
}

// detectUnknownFields compares the raw document with known struct fields.
func detectUnknownFields(data []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	known := getJSONFields(reflect.TypeOf(Config{}))
	var keys []string
	for key := range raw {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !known[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	warnings := make([]string, 0, len(keys))
	for _, key := range keys {
		warnings = append(warnings, fmt.Sprintf("unknown field %q (ignored)", key))
	}
	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
