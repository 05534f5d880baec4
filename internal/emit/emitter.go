// Package emit writes the unified TAP stream.
//
// In leading mode the plan is the second line of the output, so the body is
// spooled until every source has been read. In trailing mode the body streams
// straight to the output and the plan is written last.
package emit

import (
	"bufio"
	"io"
	"strings"

	"github.com/chriskuehl/tap2tap/internal/tap"
)

// Options configures an Emitter.
type Options struct {
	// Trailing writes the plan after the body instead of before it.
	Trailing bool
	// Spool receives the body in leading mode. A MemorySpool is used when nil.
	Spool Spool
}

// Emitter serializes merged results. Every write is a whole result, so
// output is never interleaved mid-result.
type Emitter struct {
	out      *bufio.Writer
	body     io.Writer
	spool    Spool
	trailing bool
	nested   bool
	started  bool
	finished bool
	err      error
}

// New returns an Emitter writing to out.
func New(out io.Writer, opts Options) *Emitter {
	e := &Emitter{
		out:      bufio.NewWriter(out),
		trailing: opts.Trailing,
	}
	if e.trailing {
		e.body = e.out
	} else {
		e.spool = opts.Spool
		if e.spool == nil {
			e.spool = NewMemorySpool()
		}
		e.body = e.spool
	}
	return e
}

// Trailing reports whether the plan is written after the body.
func (e *Emitter) Trailing() bool {
	return e.trailing
}

// Start writes the stream preamble. In trailing mode the version must be
// decided before any result is seen, so it is always 14.
func (e *Emitter) Start() error {
	if e.started {
		return e.err
	}
	e.started = true
	if e.trailing {
		e.write(e.out, versionLine(14)+"\n")
	}
	return e.err
}

// Diagnostics writes top-level comments, such as a source's header.
func (e *Emitter) Diagnostics(diags []tap.Diagnostic) error {
	if len(diags) == 0 {
		return e.err
	}
	var b strings.Builder
	AppendDiagnostics(&b, diags, "")
	e.write(e.body, b.String())
	return e.err
}

// Result writes one renumbered top-level result with its whole subtree.
func (e *Emitter) Result(n *tap.TestResult) error {
	if n.Subtest {
		e.nested = true
	}
	var b strings.Builder
	AppendResult(&b, n, 0)
	e.write(e.body, b.String())
	if e.trailing && e.err == nil {
		e.err = e.out.Flush()
	}
	return e.err
}

// Finish writes the plan, the body if it was spooled, and a closing bail-out
// line when bail is non-nil, then flushes the output.
func (e *Emitter) Finish(plan tap.Plan, bail *string) error {
	if e.finished {
		return e.err
	}
	e.finished = true
	if !e.started {
		_ = e.Start()
	}

	if e.trailing {
		e.write(e.out, plan.String()+"\n")
	} else {
		version := 13
		if e.nested {
			version = 14
		}
		e.write(e.out, versionLine(version)+"\n"+plan.String()+"\n")
		if e.err == nil {
			e.err = e.spool.Replay(e.out)
		}
	}
	if bail != nil {
		e.write(e.out, BailLine(*bail)+"\n")
	}
	if e.err == nil {
		e.err = e.out.Flush()
	}
	return e.err
}

// Close releases the spool. It does not write anything.
func (e *Emitter) Close() error {
	if e.spool != nil {
		return e.spool.Close()
	}
	return nil
}

func (e *Emitter) write(w io.Writer, s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(w, s)
}
