package tap2tap_test

import (
	"testing"

	"github.com/chriskuehl/tap2tap/internal/errors"
	"github.com/chriskuehl/tap2tap/pkg/tap2tap"
)

func TestExitCodeValues(t *testing.T) {
	tests := []struct {
		name     string
		constant int
		expected int
	}{
		{"ExitSuccess", tap2tap.ExitSuccess, 0},
		{"ExitFailure", tap2tap.ExitFailure, 1},
		{"ExitBailOut", tap2tap.ExitBailOut, 2},
		{"ExitIOError", tap2tap.ExitIOError, 3},
		{"ExitUsageError", tap2tap.ExitUsageError, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("tap2tap.%s = %d, want %d", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

// TestExitCodeConsistency verifies that public exit code constants match
// the internal errors package constants.
func TestExitCodeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
	}{
		{"Success", tap2tap.ExitSuccess, errors.ExitSuccess},
		{"Failure", tap2tap.ExitFailure, errors.ExitFailure},
		{"BailOut", tap2tap.ExitBailOut, errors.ExitBailOut},
		{"IOError", tap2tap.ExitIOError, errors.ExitIOError},
		{"UsageError", tap2tap.ExitUsageError, errors.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.internal {
				t.Errorf("exit code mismatch: tap2tap constant = %d, errors constant = %d",
					tt.public, tt.internal)
			}
		})
	}
}
