package output

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chriskuehl/tap2tap/internal/summary"
	"github.com/chriskuehl/tap2tap/internal/tap"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter(color bool) (*Writer, *bytes.Buffer) {
	stderr := &bytes.Buffer{}
	return NewWithWriter(stderr, color), stderr
}

func TestWriter_ErrorPrefix(t *testing.T) {
	tests := []struct {
		name   string
		color  bool
		expect string
	}{
		{"without color", false, "tap2tap: cannot open a.tap\n"},
		{"with color", true, "\033[31mtap2tap:\033[0m cannot open a.tap\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stderr := newTestWriter(tt.color)

			w.ErrorPrefix("cannot open %s", "a.tap")

			if got := stderr.String(); got != tt.expect {
				t.Errorf("ErrorPrefix() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Warning(t *testing.T) {
	tests := []struct {
		name   string
		color  bool
		expect string
	}{
		{"without color", false, "warning: unknown key \"colour\"\n"},
		{"with color", true, "\033[33mwarning:\033[0m unknown key \"colour\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stderr := newTestWriter(tt.color)

			w.Warning("unknown key %q", "colour")

			if got := stderr.String(); got != tt.expect {
				t.Errorf("Warning() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	s := summary.Summary{
		Counts:  summary.Counts{Passed: 3, Failed: 1, Skipped: 1, Total: 5},
		Outcome: summary.SomeFailed,
		Plan:    tap.Plan{Start: 1, End: 5},
		Sources: []summary.SourceSummary{
			{Name: "a.tap", Planned: 3, Terminal: tap.Completed, Counts: summary.Counts{Passed: 3, Total: 3}},
			{Name: "b.tap", Planned: -1, Terminal: tap.Truncated, Counts: summary.Counts{Failed: 1, Skipped: 1, Total: 2}},
		},
	}

	got := FormatSummary(s, false)

	lower := strings.ToLower(got)
	for _, want := range []string{"source", "a.tap", "b.tap", "passed", "truncated", "some failed"} {
		if !strings.Contains(lower, want) {
			t.Errorf("FormatSummary() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\033[") {
		t.Error("FormatSummary(color=false) should not contain ANSI escapes")
	}
}

func TestSourceStatus(t *testing.T) {
	tests := []struct {
		name string
		src  summary.SourceSummary
		want string
	}{
		{"passed", summary.SourceSummary{Terminal: tap.Completed}, "Passed"},
		{"failed", summary.SourceSummary{Terminal: tap.Completed, Counts: summary.Counts{Failed: 1}}, "Failed"},
		{"mismatch", summary.SourceSummary{Terminal: tap.Completed, Mismatch: true}, "Plan Mismatch"},
		{"bailed", summary.SourceSummary{Terminal: tap.BailedOut}, "Bailed Out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sourceStatus(tt.src, cases.Title(language.English)); got != tt.want {
				t.Errorf("sourceStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
