package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/chriskuehl/tap2tap/internal/config"
	"github.com/chriskuehl/tap2tap/internal/logging"
)

// EnvVarPrefix prefixes the environment variable of every flag.
const EnvVarPrefix = "TAP2TAP"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Path to a config file (default: .tap2tap.yaml, .tap2tap.yml or .tap2tap.toml in the working directory)",
	}
	ExecFlag = &cli.BoolFlag{
		Name:    "exec",
		Aliases: []string{"e"},
		EnvVars: prefixEnvVar("EXEC"),
		Usage:   "Treat each source as a shell command and read its stdout",
	}
	ShellFlag = &cli.StringFlag{
		Name:    "shell",
		EnvVars: prefixEnvVar("SHELL"),
		Usage:   "Shell used to run commands in exec mode",
		Value:   config.DefaultShell,
	}
	PlanFlag = &cli.StringFlag{
		Name:    "plan",
		EnvVars: prefixEnvVar("PLAN"),
		Usage:   "Where to write the plan: 'leading' or 'trailing'",
		Value:   config.DefaultPlan,
	}
	RequirePlanFlag = &cli.BoolFlag{
		Name:    "require-plan",
		EnvVars: prefixEnvVar("REQUIRE_PLAN"),
		Usage:   "Treat a source without a plan as a plan mismatch",
		Value:   true,
	}
	StripANSIFlag = &cli.BoolFlag{
		Name:    "strip-ansi",
		EnvVars: prefixEnvVar("STRIP_ANSI"),
		Usage:   "Remove ANSI escape sequences from input lines",
	}
	SummaryFlag = &cli.BoolFlag{
		Name:    "summary",
		Aliases: []string{"s"},
		EnvVars: prefixEnvVar("SUMMARY"),
		Usage:   "Print a per-source summary table to stderr",
	}
	MetricsFileFlag = &cli.StringFlag{
		Name:    "metrics-file",
		EnvVars: prefixEnvVar("METRICS_FILE"),
		Usage:   "Write run metrics in Prometheus textfile format to this path",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn or error",
		Value:   logging.DefaultLevel,
	}
	SpoolDirFlag = &cli.StringFlag{
		Name:    "spool-dir",
		EnvVars: prefixEnvVar("SPOOL_DIR"),
		Usage:   "Directory for the temporary file holding the output body (default: system temp dir)",
	}
	VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "Print the version to stderr and exit",
	}
)

// Flags lists every flag in help order.
var Flags = []cli.Flag{
	ConfigFlag,
	ExecFlag,
	ShellFlag,
	PlanFlag,
	RequirePlanFlag,
	StripANSIFlag,
	SummaryFlag,
	MetricsFileFlag,
	LogLevelFlag,
	SpoolDirFlag,
	VersionFlag,
}

// applyFlags overrides cfg with every flag the user set, on the command line
// or through its environment variable.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet(ExecFlag.Name) {
		cfg.Exec = c.Bool(ExecFlag.Name)
	}
	if c.IsSet(ShellFlag.Name) {
		cfg.Shell = c.String(ShellFlag.Name)
	}
	if c.IsSet(PlanFlag.Name) {
		cfg.Plan = c.String(PlanFlag.Name)
	}
	if c.IsSet(RequirePlanFlag.Name) {
		v := c.Bool(RequirePlanFlag.Name)
		cfg.RequirePlan = &v
	}
	if c.IsSet(StripANSIFlag.Name) {
		cfg.StripANSI = c.Bool(StripANSIFlag.Name)
	}
	if c.IsSet(SummaryFlag.Name) {
		cfg.Summary = c.Bool(SummaryFlag.Name)
	}
	if c.IsSet(MetricsFileFlag.Name) {
		cfg.MetricsFile = c.String(MetricsFileFlag.Name)
	}
	if c.IsSet(LogLevelFlag.Name) {
		cfg.LogLevel = c.String(LogLevelFlag.Name)
	}
	if c.IsSet(SpoolDirFlag.Name) {
		cfg.SpoolDir = c.String(SpoolDirFlag.Name)
	}
}
