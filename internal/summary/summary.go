// Package summary aggregates a merged stream into counts and an outcome.
package summary

import (
	"github.com/chriskuehl/tap2tap/internal/errors"
	"github.com/chriskuehl/tap2tap/internal/merge"
	"github.com/chriskuehl/tap2tap/internal/tap"
)

// Outcome is the overall verdict of a run.
type Outcome int

const (
	AllPassed Outcome = iota
	SomeFailed
	PlanMismatch
	BailedOut
)

func (o Outcome) String() string {
	switch o {
	case AllPassed:
		return "all passed"
	case SomeFailed:
		return "some failed"
	case PlanMismatch:
		return "plan mismatch"
	case BailedOut:
		return "bailed out"
	default:
		return "unknown"
	}
}

// Counts holds top-level result counts.
type Counts struct {
	Passed    int
	Failed    int // includes discarded results
	Skipped   int
	Todo      int
	Discarded int
	Total     int
}

// Add adds other to c.
func (c *Counts) Add(other Counts) {
	c.Passed += other.Passed
	c.Failed += other.Failed
	c.Skipped += other.Skipped
	c.Todo += other.Todo
	c.Discarded += other.Discarded
	c.Total += other.Total
}

// SourceSummary is the per-source part of a Summary.
type SourceSummary struct {
	Name     string
	Counts   Counts
	Planned  int // -1 when the source declared no plan
	Terminal tap.Terminal
	Mismatch bool
}

// Summary is the aggregate of a merged stream.
type Summary struct {
	Counts
	Outcome     Outcome
	Plan        tap.Plan
	Interrupted bool
	Sources     []SourceSummary
}

// Aggregate tallies the top-level results of every source. Children are not
// counted; their effect is already rolled up into their parents.
func Aggregate(stream *merge.MergedStream) Summary {
	s := Summary{Plan: stream.Plan, Interrupted: stream.Interrupted}
	mismatch, truncated := false, false
	for _, src := range stream.Sources {
		ss := SourceSummary{
			Name:     src.Name,
			Planned:  -1,
			Terminal: src.Terminal,
			Mismatch: src.PlanMismatch,
		}
		if src.Plan != nil {
			ss.Planned = src.Plan.Count()
		}
		for _, r := range src.Results {
			switch r.Status {
			case tap.StatusPass:
				ss.Counts.Passed++
			case tap.StatusFail:
				ss.Counts.Failed++
			case tap.StatusSkip:
				ss.Counts.Skipped++
			case tap.StatusTodo:
				ss.Counts.Todo++
			}
		}
		ss.Counts.Discarded = src.Discarded
		ss.Counts.Failed += src.Discarded
		ss.Counts.Total = len(src.Results) + src.Discarded

		mismatch = mismatch || src.PlanMismatch
		truncated = truncated || src.Terminal == tap.Truncated
		s.Counts.Add(ss.Counts)
		s.Sources = append(s.Sources, ss)
	}

	// A truncated or interrupted run is reported as failed even when another
	// source's plan did not match.
	switch {
	case stream.Terminal == tap.BailedOut:
		s.Outcome = BailedOut
	case truncated || s.Interrupted:
		s.Outcome = SomeFailed
	case mismatch:
		s.Outcome = PlanMismatch
	case s.Failed > 0:
		s.Outcome = SomeFailed
	default:
		s.Outcome = AllPassed
	}
	return s
}

// ExitCode maps the outcome to the process exit code.
func (s Summary) ExitCode() int {
	switch s.Outcome {
	case AllPassed:
		return errors.ExitSuccess
	case BailedOut:
		return errors.ExitBailOut
	default:
		return errors.ExitFailure
	}
}
