// Package merge concatenates TAP sources into one renumbered stream.
package merge

import "github.com/chriskuehl/tap2tap/internal/tap"

// Source is everything the merge learned about one input stream.
type Source struct {
	Name         string
	Version      int
	Plan         *tap.Plan
	Header       []tap.Diagnostic
	Results      []*tap.TestResult
	Discarded    int
	Terminal     tap.Terminal
	BailReason   string
	Anomalies    []tap.Anomaly
	PlanMismatch bool
	Err          error
}

// Observed returns the number of top-level results the source produced.
func (s *Source) Observed() int {
	return len(s.Results)
}

// Expected returns how many results the source contributes to the unified
// plan: its declared count, or what it actually produced when it declared
// nothing or bailed out.
func (s *Source) Expected() int {
	if s.Plan == nil || s.Terminal == tap.BailedOut {
		return s.Observed()
	}
	return s.Plan.Count()
}

// MergedStream is the result of one merge run.
type MergedStream struct {
	Sources     []*Source
	Plan        tap.Plan
	Terminal    tap.Terminal // Completed or BailedOut
	BailReason  string
	Interrupted bool
	Nested      bool
}

// Counter hands out consecutive top-level test numbers.
type Counter struct {
	next int
}

// NewCounter returns a Counter that starts at 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the next number.
func (c *Counter) Next() int {
	n := c.next
	c.next++
	return n
}

// Assigned returns how many numbers have been handed out.
func (c *Counter) Assigned() int {
	return c.next - 1
}

// UnifiedPlan computes the plan of the merged stream. When every source
// declared a skip-all plan, the first one's directive is carried over.
func UnifiedPlan(sources []*Source) tap.Plan {
	total := 0
	skipAll := len(sources) > 0
	directive := ""
	for _, s := range sources {
		total += s.Expected()
		if s.Plan != nil && s.Plan.SkipAll() && s.Terminal != tap.BailedOut {
			if directive == "" {
				directive = s.Plan.Directive
			}
		} else {
			skipAll = false
		}
	}
	plan := tap.Plan{Start: 1, End: total}
	if total == 0 && skipAll {
		plan.Directive = directive
	}
	return plan
}

// renumber assigns number to n and 1..k to the children of every subtest
// below it.
func renumber(n *tap.TestResult, number int) {
	n.Number = number
	for i, c := range n.Children {
		renumber(c, i+1)
	}
}
