package tap

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/acarl005/stripansi"
)

// LineSource yields the raw lines of one input stream, without line terminators.
// Next returns io.EOF after the last line.
type LineSource interface {
	Next(ctx context.Context) (string, error)
}

// Terminal is the state a stream ended in.
type Terminal int

const (
	Completed Terminal = iota
	BailedOut
	Truncated
)

func (t Terminal) String() string {
	switch t {
	case Completed:
		return "completed"
	case BailedOut:
		return "bailed out"
	case Truncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Outcome summarizes a fully consumed stream.
type Outcome struct {
	Version    int
	Plan       *Plan
	Header     []Diagnostic
	Points     int // top-level test points seen
	Discarded  int // top-level results dropped as incomplete
	Terminal   Terminal
	BailReason string
	Anomalies  []Anomaly
	Err        error // read error or context cancellation that truncated the stream
}

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	Name      string
	StripANSI bool
	Logger    *slog.Logger
}

// Reader parses a LineSource incrementally, yielding each top-level result as
// soon as it is complete.
type Reader struct {
	src        LineSource
	opts       ReaderOptions
	classifier *Classifier
	builder    *Builder
	queue      []*TestResult
	done       bool
	err        error
}

// NewReader returns a Reader over src.
func NewReader(src LineSource, opts ReaderOptions) *Reader {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{
		src:        src,
		opts:       opts,
		classifier: NewClassifier(),
		builder:    NewBuilder(),
	}
}

// Next returns the next completed top-level result, or io.EOF once the
// stream is finished. Read failures and cancellation do not surface here;
// they end the stream as Truncated and are reported by Outcome.
func (r *Reader) Next(ctx context.Context) (*TestResult, error) {
	for {
		if len(r.queue) > 0 {
			n := r.queue[0]
			r.queue = r.queue[1:]
			return n, nil
		}
		if r.done {
			return nil, io.EOF
		}

		raw, err := r.src.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = err
				r.opts.Logger.Warn("source read failed", "source", r.opts.Name, "error", err)
			}
			r.finish()
			continue
		}
		if r.opts.StripANSI {
			raw = stripansi.Strip(raw)
		}
		r.builder.Add(r.classifier.Next(raw))
		if _, bailed := r.builder.BailOut(); bailed {
			r.done = true
		}
		r.queue = append(r.queue, r.builder.Take()...)
	}
}

func (r *Reader) finish() {
	r.done = true
	r.builder.Finish()
	r.queue = append(r.queue, r.builder.Take()...)
}

// Header returns the comments that preceded the first top-level result.
// It is complete once the first result has been returned.
func (r *Reader) Header() []Diagnostic {
	return r.builder.Header()
}

// Outcome describes how the stream ended. It is meaningful after Next has
// returned io.EOF.
func (r *Reader) Outcome() Outcome {
	b := r.builder
	o := Outcome{
		Version:   b.Version(),
		Plan:      b.Plan(),
		Header:    b.Header(),
		Points:    b.Points(),
		Discarded: b.Discarded(),
		Anomalies: b.Anomalies(),
		Err:       r.err,
	}
	reason, bailed := b.BailOut()
	switch {
	case bailed:
		o.Terminal = BailedOut
		o.BailReason = reason
	case b.Truncated() || r.err != nil:
		o.Terminal = Truncated
	}
	return o
}
