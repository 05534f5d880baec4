// Package tap parses Test Anything Protocol streams into trees of test results.
package tap

import (
	"fmt"
	"strconv"
	"strings"
)

// SubtestIndent is the number of spaces that introduce one level of subtest nesting.
const SubtestIndent = 4

// Status is the effective outcome of a test point.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusSkip
	StatusTodo
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusSkip:
		return "skip"
	case StatusTodo:
		return "todo"
	default:
		return "unknown"
	}
}

// Directive is a SKIP or TODO annotation trailing a test point.
type Directive int

const (
	DirectiveNone Directive = iota
	DirectiveSkip
	DirectiveTodo
)

// String returns the directive keyword as written in TAP.
func (d Directive) String() string {
	switch d {
	case DirectiveSkip:
		return "SKIP"
	case DirectiveTodo:
		return "TODO"
	default:
		return ""
	}
}

// Plan is a declared "start..end" plan line.
type Plan struct {
	Start     int
	End       int
	Directive string // text after '#', e.g. "SKIP no database"
}

// Count returns the number of test points the plan declares.
func (p Plan) Count() int {
	return p.End - p.Start + 1
}

// SkipAll reports whether the plan declares zero test points.
func (p Plan) SkipAll() bool {
	return p.Count() == 0
}

// String renders the plan as a TAP plan line without indentation.
func (p Plan) String() string {
	s := strconv.Itoa(p.Start) + ".." + strconv.Itoa(p.End)
	if p.Directive != "" {
		s += " # " + p.Directive
	}
	return s
}

// Diagnostic is a line carried alongside test points.
// Comments keep the text after '#'. Opaque lines keep the raw input line,
// indentation included, and are written back verbatim unless they would read
// as a plan, version, test point or bail-out.
type Diagnostic struct {
	Text   string
	Opaque bool
}

// Render returns the diagnostic as an output line at the given indentation.
// An opaque line that parses as a structural line is commented out at its
// own indentation, so a demoted plan or version never reaches the output as
// a second one.
func (d Diagnostic) Render(indent string) string {
	if d.Opaque {
		body := strings.TrimLeft(d.Text, " ")
		if Classify(body).Structural() {
			return d.Text[:len(d.Text)-len(body)] + "# " + body
		}
		return d.Text
	}
	return indent + "#" + d.Text
}

// TestResult is a test point together with everything that belongs to it:
// its YAML block, diagnostics and, for subtests, the child document.
type TestResult struct {
	OK          bool
	Status      Status
	Declared    int  // number written in the input
	HasNumber   bool // whether the input carried a number
	Number      int  // number assigned during merging
	Description string
	Directive   Directive
	Reason      string
	YAML        []string // raw lines between the delimiters; nil when the point had no YAML block
	Diagnostics []Diagnostic

	// Subtest fields. Header holds comments that appeared in the child
	// document before its first test point.
	Subtest  bool
	Plan     *Plan
	Header   []Diagnostic
	Children []*TestResult
}

// String returns a short human-readable form used in logs and test failures.
func (r *TestResult) String() string {
	word := "ok"
	if !r.OK {
		word = "not ok"
	}
	return fmt.Sprintf("%s %d %q (%s)", word, r.Number, r.Description, r.Status)
}

// Walk calls fn for r and every descendant, parents before children.
func (r *TestResult) Walk(fn func(node *TestResult, depth int)) {
	r.walk(fn, 0)
}

func (r *TestResult) walk(fn func(*TestResult, int), depth int) {
	fn(r, depth)
	for _, c := range r.Children {
		c.walk(fn, depth+1)
	}
}

// leafStatus derives a status from the point's own line.
func leafStatus(ok bool, d Directive) Status {
	switch {
	case d == DirectiveSkip:
		return StatusSkip
	case d == DirectiveTodo:
		return StatusTodo
	case ok:
		return StatusPass
	default:
		return StatusFail
	}
}

// rollUp recomputes the status of a subtest node from its plan and children.
// The node's own ok/not ok is replaced by the rolled-up result, and so is its
// directive, so that the emitted line states what the children say.
// It reports whether the declared plan disagreed with the children count.
func rollUp(n *TestResult) (mismatch bool) {
	if n.Plan == nil {
		n.Plan = &Plan{Start: 1, End: len(n.Children)}
	}
	status := StatusPass
	switch {
	case n.Plan.Count() != len(n.Children):
		status = StatusFail
		mismatch = true
	case len(n.Children) == 0:
		status = StatusSkip
	default:
		allSkip, allTodo := true, true
		for _, c := range n.Children {
			if c.Status == StatusFail {
				status = StatusFail
			}
			allSkip = allSkip && c.Status == StatusSkip
			allTodo = allTodo && c.Status == StatusTodo
		}
		if status != StatusFail {
			switch {
			case allSkip:
				status = StatusSkip
			case allTodo:
				status = StatusTodo
			}
		}
	}

	n.Status = status
	n.OK = status != StatusFail
	own := n.Directive
	switch status {
	case StatusSkip:
		n.Directive = DirectiveSkip
	case StatusTodo:
		n.Directive = DirectiveTodo
	default:
		n.Directive = DirectiveNone
	}
	if own != n.Directive {
		n.Reason = ""
	}
	return mismatch
}
