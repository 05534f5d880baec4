package tap

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the grammatical role of a single input line.
type Kind int

const (
	KindUnknown Kind = iota
	KindVersion
	KindPlan
	KindTestPoint
	KindDiagnostic
	KindYAMLStart
	KindYAMLLine
	KindYAMLEnd
	KindBailOut
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindVersion:    "version",
	KindPlan:       "plan",
	KindTestPoint:  "test point",
	KindDiagnostic: "diagnostic",
	KindYAMLStart:  "yaml start",
	KindYAMLLine:   "yaml",
	KindYAMLEnd:    "yaml end",
	KindBailOut:    "bail out",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Point is the parsed content of an "ok"/"not ok" line.
type Point struct {
	OK          bool
	Number      int
	HasNumber   bool
	Description string
	Directive   Directive
	Reason      string
}

// Line is one classified input line.
type Line struct {
	Kind    Kind
	Depth   int    // nesting level, leading spaces / SubtestIndent
	Raw     string // input line without the trailing CR
	Version int
	Plan    Plan
	Point   Point
	Text    string // diagnostic text, bail-out reason or YAML content relative to its point
}

// Blank reports whether the line has no visible content.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Raw) == ""
}

// Structural reports whether the line opens or advances a TAP document.
func (l Line) Structural() bool {
	switch l.Kind {
	case KindVersion, KindPlan, KindTestPoint, KindBailOut:
		return true
	}
	return false
}

var (
	versionRegex   = regexp.MustCompile(`(?i)^TAP version (\d+)\s*$`)
	planRegex      = regexp.MustCompile(`^(\d+)\.\.(\d+)\s*(?:#\s*(.*?))?\s*$`)
	pointRegex     = regexp.MustCompile(`^(not )?ok(?:\s+(.*))?$`)
	numberRegex    = regexp.MustCompile(`^(\d+)(?:\s+(.*))?$`)
	directiveRegex = regexp.MustCompile(`(?i)^\s*(skip|todo)\S*(?:\s+(.*?))?\s*$`)
	bailRegex      = regexp.MustCompile(`(?i)^Bail out!\s*(.*?)\s*$`)
)

// Classify determines the kind of a single line without any context.
// YAML blocks and the first-line rule for version lines need state and are
// handled by Classifier; Classify never returns the YAML kinds.
// A bail-out is recognised at any indentation; every other structural line
// must sit on a subtest level.
func Classify(raw string) Line {
	raw = strings.TrimSuffix(raw, "\r")
	n := len(raw) - len(strings.TrimLeft(raw, " "))
	line := Line{Raw: raw, Depth: n / SubtestIndent}
	if strings.TrimSpace(raw) == "" {
		return line
	}
	body := raw[n:]
	if m := bailRegex.FindStringSubmatch(body); m != nil {
		line.Kind = KindBailOut
		line.Text = m[1]
		return line
	}
	if n%SubtestIndent != 0 {
		return line
	}

	if m := versionRegex.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseUint(m[1], 10, 31); err == nil {
			line.Kind = KindVersion
			line.Version = int(v)
		}
		return line
	}
	if m := planRegex.FindStringSubmatch(body); m != nil {
		start, err1 := strconv.ParseUint(m[1], 10, 31)
		end, err2 := strconv.ParseUint(m[2], 10, 31)
		if err1 == nil && err2 == nil && end+1 >= start {
			line.Kind = KindPlan
			line.Plan = Plan{Start: int(start), End: int(end), Directive: m[3]}
		}
		return line
	}
	if m := pointRegex.FindStringSubmatch(body); m != nil {
		line.Kind = KindTestPoint
		line.Point = parsePoint(m[1] == "", strings.TrimRight(m[2], " \t"))
		return line
	}
	if strings.HasPrefix(body, "#") {
		line.Kind = KindDiagnostic
		line.Text = body[1:]
	}
	return line
}

func parsePoint(ok bool, rest string) Point {
	p := Point{OK: ok}
	if m := numberRegex.FindStringSubmatch(rest); m != nil {
		if n, err := strconv.ParseUint(m[1], 10, 32); err == nil {
			p.Number = int(n)
			p.HasNumber = true
			rest = m[2]
		}
	}
	rest, p.Directive, p.Reason = splitDirective(rest)
	switch {
	case rest == "-":
		rest = ""
	case strings.HasPrefix(rest, "- "):
		rest = strings.TrimLeft(rest[2:], " ")
	}
	p.Description = rest
	return p
}

// splitDirective finds the first unescaped '#' that introduces a SKIP or TODO
// directive and splits the text around it.
func splitDirective(s string) (desc string, d Directive, reason string) {
	for i := 0; i < len(s); i++ {
		if s[i] != '#' || escaped(s, i) {
			continue
		}
		m := directiveRegex.FindStringSubmatch(s[i+1:])
		if m == nil {
			continue
		}
		d = DirectiveTodo
		if strings.EqualFold(m[1], "skip") {
			d = DirectiveSkip
		}
		return strings.TrimRight(s[:i], " \t"), d, m[2]
	}
	return s, DirectiveNone, ""
}

// escaped reports whether s[i] is preceded by an odd number of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// Classifier classifies lines of one TAP stream, tracking the YAML block
// state and which nesting levels have already seen content.
type Classifier struct {
	yaml      bool
	yamlDepth int
	lastPoint int    // depth of the previous line if it was a test point, else -1
	started   []bool // per depth, whether a non-blank line was seen
}

// NewClassifier returns a Classifier positioned at the start of a stream.
func NewClassifier() *Classifier {
	return &Classifier{lastPoint: -1}
}

// InYAML reports whether the classifier is inside an unterminated YAML block.
func (c *Classifier) InYAML() bool {
	return c.yaml
}

// Next classifies the next line of the stream.
func (c *Classifier) Next(raw string) Line {
	raw = strings.TrimSuffix(raw, "\r")

	if c.yaml {
		indent := c.yamlDepth * SubtestIndent
		if strings.TrimRight(raw, " \t") == strings.Repeat(" ", indent+2)+"..." {
			c.yaml = false
			c.lastPoint = -1
			return Line{Kind: KindYAMLEnd, Depth: c.yamlDepth, Raw: raw}
		}
		return Line{Kind: KindYAMLLine, Depth: c.yamlDepth, Raw: raw, Text: trimIndent(raw, indent)}
	}

	if strings.TrimSpace(raw) == "" {
		return Line{Raw: raw}
	}

	if c.lastPoint >= 0 && strings.TrimRight(raw, " \t") == strings.Repeat(" ", c.lastPoint*SubtestIndent+2)+"---" {
		c.yaml = true
		c.yamlDepth = c.lastPoint
		return Line{Kind: KindYAMLStart, Depth: c.lastPoint, Raw: raw}
	}

	line := Classify(raw)
	if line.Kind == KindVersion && line.Depth < len(c.started) && c.started[line.Depth] {
		line.Kind = KindUnknown
		line.Version = 0
	}
	if line.Depth > 0 && !line.Structural() {
		c.forget(line.Depth)
	} else {
		c.mark(line.Depth)
	}
	c.lastPoint = -1
	if line.Kind == KindTestPoint {
		c.lastPoint = line.Depth
	}
	return line
}

// mark records content at depth and forgets everything deeper, so a later
// child document at a deeper level may start with its own version line.
func (c *Classifier) mark(depth int) {
	for len(c.started) <= depth {
		c.started = append(c.started, false)
	}
	c.started[depth] = true
	c.started = c.started[:depth+1]
}

// forget drops the levels deeper than depth without marking depth itself.
// Indented comments such as "# Subtest: name" precede the document they
// introduce and must not stop it from opening with a version line.
func (c *Classifier) forget(depth int) {
	if len(c.started) > depth+1 {
		c.started = c.started[:depth+1]
	}
}

// trimIndent removes n leading spaces. Lines indented less than n are
// returned unchanged.
func trimIndent(s string, n int) string {
	if len(s) < n || strings.TrimLeft(s[:n], " ") != "" {
		return s
	}
	return s[n:]
}
