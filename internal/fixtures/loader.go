package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/chriskuehl/tap2tap/internal/schema"
)

const (
	// MetaFile holds the case metadata.
	MetaFile = "case.json"
	// ExpectedFile holds the expected merged stream.
	ExpectedFile = "expected.tap"
)

// LoadSuite loads every case directory under dir, sorted by name.
func LoadSuite(dir string) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases directory: %w", err)
	}

	var cases []Case
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		c, err := LoadCase(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", entry.Name(), err)
		}
		cases = append(cases, *c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
	return cases, nil
}

// LoadCase loads a single case directory.
func LoadCase(dir string) (*Case, error) {
	meta, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateCase(meta); err != nil {
		return nil, err
	}
	var cf caseFile
	if err := json.Unmarshal(meta, &cf); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	expected, err := os.ReadFile(filepath.Join(dir, ExpectedFile))
	if err != nil {
		return nil, err
	}

	inputs, err := findInputs(dir)
	if err != nil {
		return nil, err
	}

	return &Case{
		Name:        filepath.Base(dir),
		Dir:         dir,
		Description: cf.Description,
		Args:        cf.Args,
		Inputs:      inputs,
		Expected:    string(expected),
		ExitCode:    cf.ExitCode,
		Outcome:     cf.Outcome,
	}, nil
}

// findInputs returns the input streams of a case. Cases may have none, in
// which case the run reads an empty stdin.
func findInputs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.tap"))
	if err != nil {
		return nil, err
	}
	inputs := matches[:0]
	for _, m := range matches {
		if filepath.Base(m) != ExpectedFile {
			inputs = append(inputs, m)
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}
