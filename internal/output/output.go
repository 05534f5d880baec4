// Package output writes human-facing messages to stderr. Stdout belongs to
// the TAP stream and is never written here.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chriskuehl/tap2tap/internal/summary"
	"github.com/chriskuehl/tap2tap/internal/tap"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	yellow = "\033[33m"
)

// Writer handles stderr output formatting.
type Writer struct {
	err   io.Writer
	color bool
}

// NewWithWriter creates a Writer with a custom io.Writer (for testing).
func NewWithWriter(err io.Writer, color bool) *Writer {
	return &Writer{err: err, color: color}
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...any) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// ErrorPrefix prints an error message with the tap2tap prefix.
func (w *Writer) ErrorPrefix(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%stap2tap:%s %s", red, reset, msg)
	} else {
		w.Errorln("tap2tap: %s", msg)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// Summary prints the per-source summary table.
func (w *Writer) Summary(s summary.Summary) {
	fmt.Fprint(w.err, FormatSummary(s, w.color))
}

// FormatSummary renders a summary as a table with one row per source and a
// total footer.
func FormatSummary(s summary.Summary, color bool) string {
	var buf bytes.Buffer
	title := cases.Title(language.English)

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Source", "Plan", "Tests", "Passed", "Failed", "Skipped", "Todo", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Source", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Plan", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Todo", Align: text.AlignRight},
	})

	for _, src := range s.Sources {
		plan := "-"
		if src.Planned >= 0 {
			plan = fmt.Sprint(src.Planned)
		}
		t.AppendRow(table.Row{
			src.Name,
			plan,
			src.Counts.Total,
			src.Counts.Passed,
			src.Counts.Failed,
			src.Counts.Skipped,
			src.Counts.Todo,
			sourceStatus(src, title),
		})
	}

	t.AppendFooter(table.Row{
		"Total",
		s.Plan.Count(),
		s.Total,
		s.Passed,
		s.Failed,
		s.Skipped,
		s.Todo,
		title.String(s.Outcome.String()),
	})

	switch {
	case !color:
		t.SetStyle(table.StyleLight)
	case s.Outcome == summary.AllPassed:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case s.Outcome == summary.SomeFailed:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	}

	t.Render()
	return buf.String()
}

func sourceStatus(src summary.SourceSummary, title cases.Caser) string {
	switch {
	case src.Terminal != tap.Completed:
		return title.String(src.Terminal.String())
	case src.Mismatch:
		return "Plan Mismatch"
	case src.Counts.Failed > 0:
		return "Failed"
	default:
		return "Passed"
	}
}
