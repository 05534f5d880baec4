package merge

import (
	"context"
	"io"
	"log/slog"

	"github.com/chriskuehl/tap2tap/internal/emit"
	"github.com/chriskuehl/tap2tap/internal/errors"
	"github.com/chriskuehl/tap2tap/internal/source"
	"github.com/chriskuehl/tap2tap/internal/tap"
)

// Options configures a Merger.
type Options struct {
	// RequirePlan treats a source without a top-level plan as a plan mismatch.
	RequirePlan bool
	// StripANSI removes ANSI escape sequences from input lines.
	StripANSI bool
	Logger    *slog.Logger
}

// Merger reads sources one after another and writes their renumbered results
// to an Emitter.
type Merger struct {
	emitter *emit.Emitter
	opts    Options
}

// New returns a Merger writing to em.
func New(em *emit.Emitter, opts Options) *Merger {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Merger{emitter: em, opts: opts}
}

// Run merges specs in order. Each source is drained before the next is
// opened, and a bail-out stops the run without opening later sources.
//
// The returned stream is never nil. The error is non-nil only for fatal
// problems: a source that cannot be opened or output that cannot be
// written. Even then the emitter is finished with a plan covering the
// results already written.
func (m *Merger) Run(ctx context.Context, specs []source.Spec) (*MergedStream, error) {
	stream := &MergedStream{}
	counter := NewCounter()

	runErr := m.emitter.Start()
	if runErr != nil {
		runErr = errors.IO("stdout", "cannot write output", runErr)
	}

	for _, spec := range specs {
		if runErr != nil {
			break
		}
		if ctx.Err() != nil {
			stream.Interrupted = true
			break
		}

		src, err := m.drain(ctx, spec, counter)
		if src != nil {
			stream.Sources = append(stream.Sources, src)
			for _, r := range src.Results {
				stream.Nested = stream.Nested || r.Subtest
			}
		}
		if err != nil {
			runErr = err
			break
		}
		if src.Terminal == tap.BailedOut {
			stream.Terminal = tap.BailedOut
			stream.BailReason = src.BailReason
			m.opts.Logger.Warn("source bailed out", "source", src.Name, "reason", src.BailReason)
			break
		}
		if ctx.Err() != nil {
			stream.Interrupted = true
			break
		}
	}

	stream.Plan = UnifiedPlan(stream.Sources)
	m.opts.Logger.Debug("merge finished", "sources", len(stream.Sources), "numbered", counter.Assigned(), "plan", stream.Plan.String())
	var bail *string
	if stream.Terminal == tap.BailedOut {
		bail = &stream.BailReason
	}
	if err := m.emitter.Finish(stream.Plan, bail); err != nil && runErr == nil {
		runErr = errors.IO("stdout", "cannot write output", err)
	}
	return stream, runErr
}

// drain reads one source to its end, writing each result as it completes.
func (m *Merger) drain(ctx context.Context, spec source.Spec, counter *Counter) (*Source, error) {
	log := m.opts.Logger.With("source", spec.Name)

	ls, err := spec.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ls.Close(); err != nil {
			log.Debug("closing source failed", "error", err)
		}
	}()
	log.Debug("source opened")

	r := tap.NewReader(ls, tap.ReaderOptions{
		Name:      spec.Name,
		StripANSI: m.opts.StripANSI,
		Logger:    m.opts.Logger,
	})
	src := &Source{Name: spec.Name}
	headerWritten := false
	for {
		n, err := r.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return src, errors.Wrap(err, "reading "+spec.Name)
		}
		if !headerWritten {
			headerWritten = true
			if err := m.emitter.Diagnostics(r.Header()); err != nil {
				return src, errors.IO("stdout", "cannot write output", err)
			}
		}
		renumber(n, counter.Next())
		if err := m.emitter.Result(n); err != nil {
			return src, errors.IO("stdout", "cannot write output", err)
		}
		src.Results = append(src.Results, n)
	}

	o := r.Outcome()
	if !headerWritten {
		if err := m.emitter.Diagnostics(o.Header); err != nil {
			return src, errors.IO("stdout", "cannot write output", err)
		}
	}
	src.Version = o.Version
	src.Plan = o.Plan
	src.Header = o.Header
	src.Discarded = o.Discarded
	src.Terminal = o.Terminal
	src.BailReason = o.BailReason
	src.Anomalies = o.Anomalies
	src.Err = o.Err
	m.checkPlan(src)

	for _, a := range src.Anomalies {
		level := slog.LevelWarn
		if a.Kind == tap.AnomalyUnknownLine {
			level = slog.LevelDebug
		}
		log.Log(ctx, level, a.Kind.String(), "line", a.Line, "detail", a.Message)
	}
	log.Debug("source finished",
		"terminal", src.Terminal.String(),
		"results", src.Observed(),
		"discarded", src.Discarded)
	return src, nil
}

// checkPlan records whether a completed source produced what it planned.
// Bailed out and truncated sources are already failures of their own kind.
func (m *Merger) checkPlan(src *Source) {
	if src.Terminal != tap.Completed {
		return
	}
	switch {
	case src.Plan == nil:
		if m.opts.RequirePlan {
			src.PlanMismatch = true
			m.opts.Logger.Warn("source has no plan", "source", src.Name, "results", src.Observed())
		}
	case src.Plan.Count() != src.Observed():
		src.PlanMismatch = true
		m.opts.Logger.Warn("plan mismatch",
			"source", src.Name,
			"planned", src.Plan.Count(),
			"results", src.Observed())
	}
}
