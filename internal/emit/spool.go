package emit

import (
	"bytes"
	"io"
	"os"
)

// Spool holds the body of a leading-plan stream until the plan is known.
type Spool interface {
	io.Writer
	// Replay copies everything written so far to w.
	Replay(w io.Writer) error
	// Close releases the spool's storage.
	Close() error
}

// MemorySpool keeps the body in memory.
type MemorySpool struct {
	buf bytes.Buffer
}

// NewMemorySpool returns an empty in-memory spool.
func NewMemorySpool() *MemorySpool {
	return &MemorySpool{}
}

func (s *MemorySpool) Write(p []byte) (int, error) { return s.buf.Write(p) }

// Replay writes the buffered body to w.
func (s *MemorySpool) Replay(w io.Writer) error {
	_, err := w.Write(s.buf.Bytes())
	return err
}

// Close drops the buffered body.
func (s *MemorySpool) Close() error {
	s.buf = bytes.Buffer{}
	return nil
}

// FileSpool keeps the body in a temporary file, for runs whose output may not
// fit in memory.
type FileSpool struct {
	f *os.File
}

// NewFileSpool creates a spool file in dir, or in the default temporary
// directory when dir is empty.
func NewFileSpool(dir string) (*FileSpool, error) {
	f, err := os.CreateTemp(dir, "tap2tap-*.tap")
	if err != nil {
		return nil, err
	}
	return &FileSpool{f: f}, nil
}

func (s *FileSpool) Write(p []byte) (int, error) { return s.f.Write(p) }

// Replay rewinds the spool file and copies it to w.
func (s *FileSpool) Replay(w io.Writer) error {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := io.Copy(w, s.f)
	return err
}

// Close closes and removes the spool file.
func (s *FileSpool) Close() error {
	name := s.f.Name()
	err := s.f.Close()
	if rmErr := os.Remove(name); err == nil {
		err = rmErr
	}
	return err
}
