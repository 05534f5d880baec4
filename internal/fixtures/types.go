// Package fixtures loads golden TAP cases: a directory of input streams, the
// merged stream tap2tap must produce from them, and the expected exit code.
package fixtures

// Case is one golden case directory.
type Case struct {
	Name        string   // Directory name
	Dir         string   // Full path to the case directory
	Description string   // Free text from case.json
	Args        []string // Flags placed before the inputs
	Inputs      []string // Input files (*.tap except expected.tap), sorted
	Expected    string   // Contents of expected.tap
	ExitCode    int      // Expected exit code
	Outcome     string   // Expected summary outcome, if given
}

// caseFile is the decoded case.json.
type caseFile struct {
	Description string   `json:"description"`
	Args        []string `json:"args"`
	ExitCode    int      `json:"exit_code"`
	Outcome     string   `json:"outcome"`
}
