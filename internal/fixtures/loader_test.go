package fixtures

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCase(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadSuite_ReturnsSortedCases(t *testing.T) {
	root := t.TempDir()
	writeCase(t, filepath.Join(root, "zeta"), map[string]string{
		"case.json":    `{"exit_code": 0}`,
		"expected.tap": "TAP version 13\n1..0\n",
	})
	writeCase(t, filepath.Join(root, "alpha"), map[string]string{
		"case.json":    `{"exit_code": 1, "outcome": "some failed", "args": ["--plan", "trailing"]}`,
		"b.tap":        "not ok\n",
		"a.tap":        "ok\n",
		"expected.tap": "TAP version 14\nok 1\nnot ok 2\n1..2\n",
	})
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	cases, err := LoadSuite(root)
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("len(cases) = %d, want 2", len(cases))
	}

	alpha := cases[0]
	if alpha.Name != "alpha" {
		t.Errorf("cases[0].Name = %q, want %q", alpha.Name, "alpha")
	}
	if alpha.ExitCode != 1 || alpha.Outcome != "some failed" {
		t.Errorf("alpha = exit %d outcome %q, want 1 %q", alpha.ExitCode, alpha.Outcome, "some failed")
	}
	if len(alpha.Args) != 2 || alpha.Args[1] != "trailing" {
		t.Errorf("alpha.Args = %v", alpha.Args)
	}
	if len(alpha.Inputs) != 2 ||
		filepath.Base(alpha.Inputs[0]) != "a.tap" ||
		filepath.Base(alpha.Inputs[1]) != "b.tap" {
		t.Errorf("alpha.Inputs = %v, want [a.tap b.tap]", alpha.Inputs)
	}

	if zeta := cases[1]; len(zeta.Inputs) != 0 {
		t.Errorf("zeta.Inputs = %v, want none", zeta.Inputs)
	}
}

func TestLoadCase_InvalidMeta(t *testing.T) {
	tests := map[string]string{
		"missing exit code": `{"description": "x"}`,
		"unknown field":     `{"exit_code": 0, "input": "a.tap"}`,
		"bad outcome":       `{"exit_code": 0, "outcome": "great"}`,
		"exit code range":   `{"exit_code": 9}`,
		"not json":          `{exit_code: 0`,
	}
	for name, meta := range tests {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "c")
			writeCase(t, dir, map[string]string{
				"case.json":    meta,
				"expected.tap": "",
			})
			if _, err := LoadCase(dir); err == nil {
				t.Error("LoadCase() expected error")
			}
		})
	}
}

func TestLoadCase_MissingExpected(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	writeCase(t, dir, map[string]string{"case.json": `{"exit_code": 0}`})
	if _, err := LoadCase(dir); err == nil {
		t.Error("LoadCase() expected error for missing expected.tap")
	}
}

func TestLoadSuite_MissingDir(t *testing.T) {
	if _, err := LoadSuite(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("LoadSuite() expected error")
	}
}
