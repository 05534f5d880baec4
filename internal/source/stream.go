// Package source opens the inputs tap2tap merges: files, standard input,
// glob patterns and the stdout of shell commands.
package source

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// maxLineSize bounds a single input line.
const maxLineSize = 16 * 1024 * 1024

// LineSource yields the lines of one opened input.
type LineSource interface {
	Name() string
	// Next returns the next line without its terminator, or io.EOF.
	// It returns ctx.Err() as soon as ctx is done, even if a read is pending.
	Next(ctx context.Context) (string, error)
	Close() error
}

// Spec names an input and opens it when the merge reaches it.
type Spec struct {
	Name string
	Open func(ctx context.Context) (LineSource, error)
}

type item struct {
	line string
	err  error
}

// Stream is a LineSource over an io.ReadCloser. A goroutine reads ahead by
// one line so that Next can honor cancellation; Close releases it.
type Stream struct {
	name  string
	rc    io.ReadCloser
	lines chan item
	done  chan struct{}
	once  sync.Once
	err   error
}

// NewStream starts reading lines from rc.
func NewStream(name string, rc io.ReadCloser) *Stream {
	s := &Stream{
		name:  name,
		rc:    rc,
		lines: make(chan item),
		done:  make(chan struct{}),
	}
	go s.read()
	return s
}

func (s *Stream) read() {
	defer close(s.lines)

	scanner := bufio.NewScanner(s.rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		select {
		case s.lines <- item{line: scanner.Text()}:
		case <-s.done:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case s.lines <- item{err: err}:
	case <-s.done:
	}
}

// Name returns the name the stream was opened with.
func (s *Stream) Name() string {
	return s.name
}

// Next returns the next line.
func (s *Stream) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case it, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return it.line, it.err
	}
}

// Close closes the underlying reader and releases the reader goroutine.
// The goroutine exits once its pending read returns.
func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.err = s.rc.Close()
	})
	return s.err
}
