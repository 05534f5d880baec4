// Package schema provides JSON schema validation for tap2tap configuration
// files and golden test case metadata.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/chriskuehl/tap2tap/schema"
)

var (
	configSchema *jsonschema.Schema
	caseSchema   *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, name := range []string{"config.schema.json", "case.schema.json"} {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		configSchema, err = compiler.Compile("config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
			return
		}

		caseSchema, err = compiler.Compile("case.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile case schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateConfig validates JSON data against the config schema.
func ValidateConfig(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return configSchema }, "config")
}

// ValidateCase validates JSON data against the golden case schema.
func ValidateCase(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return caseSchema }, "case")
}

func validate(data []byte, schema func() *jsonschema.Schema, what string) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema().Validate(v); err != nil {
		return fmt.Errorf("%s validation failed: %w", what, err)
	}

	return nil
}
