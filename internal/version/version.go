// Package version holds the tap2tap version and parses semantic versions.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/chriskuehl/tap2tap/internal/version.Version=1.2.3".
var Version = "0.1.0"

// SemverRegex validates semantic version strings.
var SemverRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(-([a-zA-Z0-9]+(\.[a-zA-Z0-9]+)*))?(\+([a-zA-Z0-9]+(\.[a-zA-Z0-9]+)*))?$`)

// Semver represents a parsed semantic version.
type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// Parse parses a semantic version string.
func Parse(version string) (*Semver, error) {
	match := SemverRegex.FindStringSubmatch(version)
	if match == nil {
		return nil, fmt.Errorf("invalid semver format: %q", version)
	}

	// Errors ignored: regex guarantees these capture groups contain only digits
	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	patch, _ := strconv.Atoi(match[3])

	return &Semver{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: match[5], // Group 5 is prerelease without the dash
		Build:      match[8], // Group 8 is build without the plus
	}, nil
}

// String returns the semver string representation.
func (s *Semver) String() string {
	result := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	if s.Prerelease != "" {
		result += "-" + s.Prerelease
	}
	if s.Build != "" {
		result += "+" + s.Build
	}
	return result
}

// Core returns major.minor.patch without prerelease or build metadata.
func (s *Semver) Core() string {
	return fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
}

// String returns the line printed by "tap2tap --version". A leading "v" in
// Version is tolerated; a Version that is not semver is printed as is.
func String() string {
	return Line(Version)
}

// Line formats the version line for v.
func Line(v string) string {
	v = strings.TrimPrefix(v, "v")
	if s, err := Parse(v); err == nil {
		v = s.Core()
	}
	return "tap2tap v" + v
}
