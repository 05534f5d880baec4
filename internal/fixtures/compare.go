package fixtures

import (
	"fmt"
	"strings"
)

// Compare reports whether actual equals expected. When it does not, the
// message names the first differing line.
func Compare(expected, actual string) (bool, string) {
	if expected == actual {
		return true, ""
	}

	exp := strings.Split(expected, "\n")
	act := strings.Split(actual, "\n")
	for i := 0; ; i++ {
		switch {
		case i >= len(exp):
			return false, fmt.Sprintf("line %d: unexpected extra line %q", i+1, act[i])
		case i >= len(act):
			return false, fmt.Sprintf("line %d: missing line %q", i+1, exp[i])
		case exp[i] != act[i]:
			return false, fmt.Sprintf("line %d: expected %q, got %q", i+1, exp[i], act[i])
		}
	}
}
