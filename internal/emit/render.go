package emit

import (
	"strconv"
	"strings"

	"github.com/chriskuehl/tap2tap/internal/tap"
)

// versionLine returns the TAP version line written by an emitter.
func versionLine(version int) string {
	return "TAP version " + strconv.Itoa(version)
}

// PointLine renders the "ok"/"not ok" line of a result without indentation.
func PointLine(n *tap.TestResult) string {
	var b strings.Builder
	if !n.OK {
		b.WriteString("not ")
	}
	b.WriteString("ok ")
	b.WriteString(strconv.Itoa(n.Number))
	if n.Description != "" {
		b.WriteString(" - ")
		b.WriteString(n.Description)
	}
	if n.Directive != tap.DirectiveNone {
		b.WriteString(" # ")
		b.WriteString(n.Directive.String())
		if n.Reason != "" {
			b.WriteByte(' ')
			b.WriteString(n.Reason)
		}
	}
	return b.String()
}

// AppendResult renders n and its subtree at the given depth. A subtest is
// written as a complete child document ahead of its parent's point line.
func AppendResult(b *strings.Builder, n *tap.TestResult, depth int) {
	indent := strings.Repeat(" ", depth*tap.SubtestIndent)
	if n.Subtest {
		child := indent + strings.Repeat(" ", tap.SubtestIndent)
		writeLine(b, child+versionLine(14))
		if n.Plan != nil {
			writeLine(b, child+n.Plan.String())
		}
		AppendDiagnostics(b, n.Header, child)
		for _, c := range n.Children {
			AppendResult(b, c, depth+1)
		}
	}
	writeLine(b, indent+PointLine(n))
	if n.YAML != nil {
		writeLine(b, indent+"  ---")
		for _, l := range n.YAML {
			writeLine(b, l)
		}
		writeLine(b, indent+"  ...")
	}
	AppendDiagnostics(b, n.Diagnostics, indent)
}

// AppendDiagnostics renders diagnostics at the given indentation.
func AppendDiagnostics(b *strings.Builder, diags []tap.Diagnostic, indent string) {
	for _, d := range diags {
		writeLine(b, d.Render(indent))
	}
}

func writeLine(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

// BailLine renders a bail-out line.
func BailLine(reason string) string {
	if reason == "" {
		return "Bail out!"
	}
	return "Bail out! " + reason
}
