// Package tap2tap provides public constants for tools that run tap2tap and
// inspect its exit status.
package tap2tap

// Exit codes returned by the tap2tap CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every test passed and every plan matched.
	ExitSuccess = 0

	// ExitFailure indicates a failed test or a plan mismatch.
	ExitFailure = 1

	// ExitBailOut indicates a source emitted "Bail out!".
	ExitBailOut = 2

	// ExitIOError indicates a source could not be opened or read.
	ExitIOError = 3

	// ExitUsageError indicates invalid flags or configuration.
	ExitUsageError = 4
)
