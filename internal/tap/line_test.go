package tap

import (
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		kind  Kind
		depth int
		check func(t *testing.T, l Line)
	}{
		{name: "version", raw: "TAP version 13", kind: KindVersion, check: func(t *testing.T, l Line) {
			if l.Version != 13 {
				t.Errorf("Version = %d, want 13", l.Version)
			}
		}},
		{name: "version lowercase", raw: "tap version 14", kind: KindVersion},
		{name: "version trailing text", raw: "TAP version 13 beta", kind: KindUnknown},
		{name: "plan", raw: "1..5", kind: KindPlan, check: func(t *testing.T, l Line) {
			if l.Plan.Count() != 5 || l.Plan.Directive != "" {
				t.Errorf("Plan = %+v", l.Plan)
			}
		}},
		{name: "skip all", raw: "1..0 # Skipped: no network", kind: KindPlan, check: func(t *testing.T, l Line) {
			if !l.Plan.SkipAll() || l.Plan.Directive != "Skipped: no network" {
				t.Errorf("Plan = %+v", l.Plan)
			}
		}},
		{name: "plan backwards", raw: "5..2", kind: KindUnknown},
		{name: "plan with CR", raw: "1..2\r", kind: KindPlan},
		{name: "ok", raw: "ok", kind: KindTestPoint, check: func(t *testing.T, l Line) {
			if !l.Point.OK || l.Point.HasNumber || l.Point.Description != "" {
				t.Errorf("Point = %+v", l.Point)
			}
		}},
		{name: "not ok numbered", raw: "not ok 12 - it broke", kind: KindTestPoint, check: func(t *testing.T, l Line) {
			p := l.Point
			if p.OK || !p.HasNumber || p.Number != 12 || p.Description != "it broke" {
				t.Errorf("Point = %+v", p)
			}
		}},
		{name: "description without dash", raw: "ok 3 works fine", kind: KindTestPoint, check: func(t *testing.T, l Line) {
			if l.Point.Description != "works fine" {
				t.Errorf("Description = %q", l.Point.Description)
			}
		}},
		{name: "skip directive", raw: "ok 4 - net # SKIP offline", kind: KindTestPoint, check: func(t *testing.T, l Line) {
			p := l.Point
			if p.Directive != DirectiveSkip || p.Reason != "offline" || p.Description != "net" {
				t.Errorf("Point = %+v", p)
			}
		}},
		{name: "todo directive lowercase", raw: "not ok 5 # todo", kind: KindTestPoint, check: func(t *testing.T, l Line) {
			p := l.Point
			if p.Directive != DirectiveTodo || p.Reason != "" || p.Description != "" {
				t.Errorf("Point = %+v", p)
			}
		}},
		{name: "escaped hash", raw: `ok 6 - a \# SKIP b`, kind: KindTestPoint, check: func(t *testing.T, l Line) {
			p := l.Point
			if p.Directive != DirectiveNone || p.Description != `a \# SKIP b` {
				t.Errorf("Point = %+v", p)
			}
		}},
		{name: "hash without directive", raw: "ok 7 - issue #42 fixed", kind: KindTestPoint, check: func(t *testing.T, l Line) {
			if l.Point.Directive != DirectiveNone || l.Point.Description != "issue #42 fixed" {
				t.Errorf("Point = %+v", l.Point)
			}
		}},
		{name: "okay is not a point", raw: "okay then", kind: KindUnknown},
		{name: "comment", raw: "# hello", kind: KindDiagnostic, check: func(t *testing.T, l Line) {
			if l.Text != " hello" {
				t.Errorf("Text = %q", l.Text)
			}
		}},
		{name: "bail out", raw: "Bail out! no db", kind: KindBailOut, check: func(t *testing.T, l Line) {
			if l.Text != "no db" {
				t.Errorf("Text = %q", l.Text)
			}
		}},
		{name: "bail out bare", raw: "Bail out!", kind: KindBailOut},
		{name: "subtest point", raw: "    ok 1 - inner", kind: KindTestPoint, depth: 1},
		{name: "deep plan", raw: "        1..3", kind: KindPlan, depth: 2},
		{name: "odd indent", raw: "  ok 1", kind: KindUnknown},
		{name: "odd indent bail out", raw: "  Bail out! disk full", kind: KindBailOut, check: func(t *testing.T, l Line) {
			if l.Text != "disk full" {
				t.Errorf("Text = %q", l.Text)
			}
		}},
		{name: "deep odd indent bail out", raw: "      Bail out!", kind: KindBailOut, depth: 1},
		{name: "blank", raw: "   ", kind: KindUnknown},
		{name: "garbage", raw: "panic: runtime error", kind: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := Classify(tt.raw)
			if l.Kind != tt.kind {
				t.Fatalf("Classify(%q).Kind = %v, want %v", tt.raw, l.Kind, tt.kind)
			}
			if l.Depth != tt.depth {
				t.Errorf("Depth = %d, want %d", l.Depth, tt.depth)
			}
			if tt.check != nil {
				tt.check(t, l)
			}
		})
	}
}

func kinds(lines ...string) []Kind {
	c := NewClassifier()
	out := make([]Kind, len(lines))
	for i, l := range lines {
		out[i] = c.Next(l).Kind
	}
	return out
}

func equalKinds(t *testing.T, got, want []Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d kinds, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: kind = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestClassifier_YAMLBlock(t *testing.T) {
	t.Parallel()

	got := kinds(
		"not ok 1 - broken",
		"  ---",
		"  message: \"ok 2 is not a test\"",
		"",
		"  data:",
		"    - 1..3",
		"  ...",
		"ok 2",
	)
	equalKinds(t, got, []Kind{
		KindTestPoint, KindYAMLStart, KindYAMLLine, KindYAMLLine,
		KindYAMLLine, KindYAMLLine, KindYAMLEnd, KindTestPoint,
	})
}

func TestClassifier_YAMLOnlyAfterPoint(t *testing.T) {
	t.Parallel()

	got := kinds("1..1", "  ---", "ok 1", "# note", "  ---")
	equalKinds(t, got, []Kind{KindPlan, KindUnknown, KindTestPoint, KindDiagnostic, KindUnknown})
}

func TestClassifier_NestedYAML(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	c.Next("    ok 1 - inner")
	start := c.Next("      ---")
	if start.Kind != KindYAMLStart || start.Depth != 1 {
		t.Fatalf("start = %v depth %d", start.Kind, start.Depth)
	}
	body := c.Next("      at: here")
	if body.Kind != KindYAMLLine || body.Text != "  at: here" {
		t.Errorf("body = %v %q", body.Kind, body.Text)
	}
	if !c.InYAML() {
		t.Error("InYAML() = false inside block")
	}
	if short := c.Next("  short: 1"); short.Kind != KindYAMLLine || short.Text != "  short: 1" {
		t.Errorf("short = %v %q", short.Kind, short.Text)
	}
	if end := c.Next("      ..."); end.Kind != KindYAMLEnd {
		t.Errorf("end = %v", end.Kind)
	}
	if c.InYAML() {
		t.Error("InYAML() = true after block")
	}
}

func TestClassifier_VersionOnlyFirst(t *testing.T) {
	t.Parallel()

	got := kinds(
		"TAP version 14",
		"TAP version 14",
		"    # Subtest: child",
		"    TAP version 14",
		"    1..1",
		"    TAP version 13",
		"    ok 1",
		"ok 1 - child",
		"    TAP version 14",
	)
	equalKinds(t, got, []Kind{
		KindVersion, KindUnknown, KindDiagnostic, KindVersion,
		KindPlan, KindUnknown, KindTestPoint, KindTestPoint, KindVersion,
	})
}

func TestClassifier_VersionAfterComment(t *testing.T) {
	t.Parallel()

	got := kinds("# preamble", "TAP version 13")
	equalKinds(t, got, []Kind{KindDiagnostic, KindUnknown})
}
