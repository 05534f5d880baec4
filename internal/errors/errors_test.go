package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with source",
			err:      &Error{Source: "a.tap", Message: "cannot open"},
			expected: "[a.tap] cannot open",
		},
		{
			name:     "with source and cause",
			err:      &Error{Source: "a.tap", Message: "cannot open", Cause: errors.New("permission denied")},
			expected: "[a.tap] cannot open: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &Error{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitFailure},
		{"config", KindConfig, ExitUsageError},
		{"usage", KindUsage, ExitUsageError},
		{"io", KindIO, ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &Error{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestConfigf(t *testing.T) {
	err := Configf("field %q: %s", "plan", "must be leading or trailing")

	if err.Kind != KindConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, KindConfig)
	}
	expected := `field "plan": must be leading or trailing`
	if err.Message != expected {
		t.Errorf("Message = %q, want %q", err.Message, expected)
	}
}

func TestIO(t *testing.T) {
	cause := errors.New("no such file or directory")
	err := IO("missing.tap", "cannot open source", cause)

	if err.Kind != KindIO {
		t.Errorf("Kind = %v, want %v", err.Kind, KindIO)
	}
	if err.Source != "missing.tap" {
		t.Errorf("Source = %q, want %q", err.Source, "missing.tap")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.ExitCode() != ExitIOError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitIOError)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(cause, "wrapped message")

	if err.Kind != KindRuntime {
		t.Errorf("Kind = %v, want %v", err.Kind, KindRuntime)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Error() != "wrapped message: original error" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"runtime", Wrap(errors.New("boom"), "runtime"), ExitFailure},
		{"config", Configf("config"), ExitUsageError},
		{"usage", Usage("bad flag"), ExitUsageError},
		{"io", IO("x", "gone", nil), ExitIOError},
		{"wrapped io", fmt.Errorf("merge: %w", IO("x", "gone", nil)), ExitIOError},
		{"generic error", errors.New("generic"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	codes := map[string]int{
		"ExitSuccess":    ExitSuccess,
		"ExitFailure":    ExitFailure,
		"ExitBailOut":    ExitBailOut,
		"ExitIOError":    ExitIOError,
		"ExitUsageError": ExitUsageError,
	}
	for i, name := range []string{"ExitSuccess", "ExitFailure", "ExitBailOut", "ExitIOError", "ExitUsageError"} {
		if codes[name] != i {
			t.Errorf("%s = %d, want %d", name, codes[name], i)
		}
	}
}
