package source

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/chriskuehl/tap2tap/internal/errors"
)

// DefaultShell runs exec-mode commands.
const DefaultShell = "/bin/sh"

// WaitDelay bounds how long a command's stdout is read after the command
// has exited.
var WaitDelay = 2 * time.Second

// Commands runs shell commands whose stdout is merged as TAP. All commands
// start at once and their output is drained into memory concurrently, so a
// command never blocks on a full pipe while an earlier one is consumed.
type Commands struct {
	wg     conc.WaitGroup
	procs  []*process
	logger *slog.Logger
}

type process struct {
	name string
	cmd  *exec.Cmd
	buf  *buffer
}

// StartCommands starts each command with "shell -c". The commands' stderr is
// passed through to stderr.
func StartCommands(ctx context.Context, commands []string, shell string, stderr io.Writer, logger *slog.Logger) (*Commands, error) {
	if shell == "" {
		shell = DefaultShell
	}
	c := &Commands{logger: logger}
	for _, command := range commands {
		p := &process{name: command, buf: newBuffer()}
		cmd := exec.CommandContext(ctx, shell, "-c", command)
		cmd.Stdout = p.buf
		cmd.Stderr = stderr
		// Background children of the shell may hold stdout open after the
		// shell itself has exited or been killed.
		cmd.WaitDelay = WaitDelay
		if err := cmd.Start(); err != nil {
			c.Close()
			return nil, errors.IO(command, "cannot start command", err)
		}
		p.cmd = cmd
		c.procs = append(c.procs, p)
		logger.Debug("command started", "source", command, "pid", cmd.Process.Pid)
		c.wg.Go(func() {
			err := cmd.Wait()
			switch {
			case stderrors.Is(err, exec.ErrWaitDelay):
				logger.Warn("command output cut off after exit", "source", p.name)
				p.buf.CloseWithError(err)
				return
			case err != nil:
				logger.Info("command exited with error", "source", p.name, "error", err)
			}
			p.buf.CloseWithError(nil)
		})
	}
	return c, nil
}

// Specs returns one Spec per command, in command order. Closing an opened
// source before it is exhausted kills its command.
func (c *Commands) Specs() []Spec {
	specs := make([]Spec, 0, len(c.procs))
	for _, p := range c.procs {
		specs = append(specs, Spec{
			Name: p.name,
			Open: func(context.Context) (LineSource, error) {
				return NewStream(p.name, &processReader{p: p}), nil
			},
		})
	}
	return specs
}

// Close kills every command that is still running and waits for the
// drainers to finish.
func (c *Commands) Close() {
	for _, p := range c.procs {
		p.kill()
	}
	c.wg.Wait()
}

func (p *process) kill() {
	if p.buf.finished() || p.cmd.Process == nil {
		return
	}
	_ = p.cmd.Process.Kill()
}

// processReader reads a command's drained output.
type processReader struct {
	p *process
}

func (r *processReader) Read(b []byte) (int, error) {
	return r.p.buf.Read(b)
}

func (r *processReader) Close() error {
	r.p.kill()
	r.p.buf.Close()
	return nil
}

// buffer is an unbounded in-memory pipe: writes never block, reads block
// until data arrives or the writer closes.
type buffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	data   []byte
	err    error // reported to readers once data is drained
	eof    bool  // writer is done
	closed bool  // reader is done
}

func newBuffer() *buffer {
	b := &buffer{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.data = append(b.data, p...)
		b.cond.Broadcast()
	}
	return len(p), nil
}

// CloseWithError marks the end of the written data.
func (b *buffer) CloseWithError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		err = io.EOF
	}
	b.eof = true
	b.err = err
	b.cond.Broadcast()
}

// Close stops reading; pending and future reads return io.ErrClosedPipe.
func (b *buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.data = nil
	b.cond.Broadcast()
}

func (b *buffer) finished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eof
}

func (b *buffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.data) == 0 && !b.eof && !b.closed {
		b.cond.Wait()
	}
	switch {
	case b.closed:
		return 0, io.ErrClosedPipe
	case len(b.data) > 0:
		n := copy(p, b.data)
		b.data = b.data[n:]
		return n, nil
	default:
		return 0, b.err
	}
}
