// Package cli provides the tap2tap command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/chriskuehl/tap2tap/internal/config"
	"github.com/chriskuehl/tap2tap/internal/emit"
	"github.com/chriskuehl/tap2tap/internal/errors"
	"github.com/chriskuehl/tap2tap/internal/logging"
	"github.com/chriskuehl/tap2tap/internal/merge"
	"github.com/chriskuehl/tap2tap/internal/metrics"
	"github.com/chriskuehl/tap2tap/internal/output"
	"github.com/chriskuehl/tap2tap/internal/source"
	"github.com/chriskuehl/tap2tap/internal/summary"
	"github.com/chriskuehl/tap2tap/internal/version"
)

// Run executes the CLI with the given arguments and returns an exit code.
// SIGINT, SIGTERM, SIGHUP and SIGQUIT cancel the run; the output written so
// far is still closed with a plan.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer stop()
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// invocation carries the streams of one run and the exit code its action
// settles on.
type invocation struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	dir    string // where the config file is looked up; the working directory when empty
	out    *output.Writer
	code   int
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inv := &invocation{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		out:    output.NewWithWriter(stderr, logging.IsTerminal(stderr)),
	}
	return inv.run(ctx, args)
}

func (inv *invocation) run(ctx context.Context, args []string) int {
	app := inv.newApp()
	if err := app.RunContext(ctx, append([]string{app.Name}, args...)); err != nil {
		inv.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	return inv.code
}

func (inv *invocation) newApp() *cli.App {
	return &cli.App{
		Name:            "tap2tap",
		Usage:           "merge TAP streams into one",
		UsageText:       "tap2tap [flags] [source...]",
		Description:     "Reads each source in order (files, glob patterns, '-' for stdin, or shell commands with --exec)\nand writes a single renumbered TAP stream to stdout.",
		Flags:           Flags,
		HideVersion:     true,
		HideHelpCommand: true,
		Writer:          inv.stderr,
		ErrWriter:       inv.stderr,
		Reader:          inv.stdin,
		Action:          inv.action,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return errors.Usage(err.Error())
		},
		// Exit codes are decided by run, never by os.Exit inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func (inv *invocation) action(c *cli.Context) error {
	if c.Bool(VersionFlag.Name) {
		fmt.Fprintln(inv.stderr, version.String())
		return nil
	}

	cfg, warnings, err := inv.loadConfig(c)
	if err != nil {
		return err
	}
	logger := logging.New(inv.stderr, cfg.LogLevel)
	for _, w := range warnings {
		inv.out.Warning("config: %s", w)
	}

	ctx := c.Context
	args := c.Args().Slice()
	var specs []source.Spec
	if cfg.Exec {
		if len(args) == 0 {
			return errors.Usage("--exec needs at least one command")
		}
		cmds, err := source.StartCommands(ctx, args, cfg.Shell, inv.stderr, logger)
		if err != nil {
			return err
		}
		defer cmds.Close()
		specs = cmds.Specs()
	} else {
		specs, err = source.Expand(args, inv.stdin)
		if err != nil {
			return err
		}
	}

	em, err := newEmitter(inv.stdout, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := em.Close(); err != nil {
			logger.Debug("removing spool failed", "error", err)
		}
	}()

	stream, err := merge.New(em, merge.Options{
		RequirePlan: cfg.PlanRequired(),
		StripANSI:   cfg.StripANSI,
		Logger:      logger,
	}).Run(ctx, specs)
	if err != nil {
		return err
	}

	s := summary.Aggregate(stream)
	inv.code = s.ExitCode()
	logger.Debug("run finished", "outcome", s.Outcome.String(), "tests", s.Total, "exit_code", inv.code)
	if stream.Interrupted {
		logger.Warn("run interrupted", "error", context.Cause(ctx))
	}

	if cfg.Summary {
		inv.out.Summary(s)
	}
	if cfg.MetricsFile != "" {
		writeMetrics(cfg.MetricsFile, s, logger)
	}
	return nil
}

// loadConfig resolves defaults, the config file and flags, in that order.
func (inv *invocation) loadConfig(c *cli.Context) (*config.Config, []string, error) {
	path := c.String(ConfigFlag.Name)
	if path == "" {
		dir := inv.dir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		if dir != "" {
			path = config.Find(dir)
		}
	}

	cfg := config.Default()
	var warnings []string
	if path != "" {
		var err error
		cfg, warnings, err = config.Load(path)
		if err != nil {
			return nil, warnings, errors.Configf("%v", err)
		}
	}

	applyFlags(c, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, warnings, errors.Configf("invalid configuration: %v", err)
	}
	return cfg, warnings, nil
}

// newEmitter spools the body to a temporary file unless the plan trails.
func newEmitter(w io.Writer, cfg *config.Config) (*emit.Emitter, error) {
	opts := emit.Options{Trailing: cfg.Trailing()}
	if !opts.Trailing {
		spool, err := emit.NewFileSpool(cfg.SpoolDir)
		if err != nil {
			return nil, errors.IO(cfg.SpoolDir, "cannot create spool file", err)
		}
		opts.Spool = spool
	}
	return emit.New(w, opts), nil
}

// writeMetrics reports failures as warnings; the TAP stream is already out
// and its exit code stands.
func writeMetrics(path string, s summary.Summary, logger *slog.Logger) {
	rec := metrics.NewRecorder()
	rec.Observe(s)
	if err := rec.WriteTextfile(path); err != nil {
		logger.Warn("writing metrics failed", "path", path, "error", err)
	}
}
