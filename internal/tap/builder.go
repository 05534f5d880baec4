package tap

import "fmt"

// AnomalyKind classifies a grammar problem found while building results.
type AnomalyKind int

const (
	AnomalyUnknownLine AnomalyKind = iota
	AnomalyDuplicatePlan
	AnomalyMissingSubtestPlan
	AnomalySubtestPlanMismatch
	AnomalyOrphanSubtest
	AnomalyTruncated
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyUnknownLine:
		return "unknown line"
	case AnomalyDuplicatePlan:
		return "duplicate plan"
	case AnomalyMissingSubtestPlan:
		return "missing subtest plan"
	case AnomalySubtestPlanMismatch:
		return "subtest plan mismatch"
	case AnomalyOrphanSubtest:
		return "subtest without parent"
	case AnomalyTruncated:
		return "truncated"
	default:
		return "anomaly"
	}
}

// Anomaly is a recoverable grammar problem. Anomalies never stop parsing.
type Anomaly struct {
	Line    int
	Kind    AnomalyKind
	Message string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("line %d: %s: %s", a.Line, a.Kind, a.Message)
}

// document is an open TAP document at one nesting depth. Depth 0 is the
// stream itself; deeper documents are subtests whose parent point has not
// arrived yet.
type document struct {
	plan     *Plan
	header   []Diagnostic
	children []*TestResult
	last     *TestResult
}

// Builder assembles classified lines into top-level test results.
// Completed top-level results are collected with Take.
type Builder struct {
	docs    []*document
	current *TestResult // last top-level result, still accepting diagnostics
	ready   []*TestResult
	yaml    *TestResult

	version   int
	points    int
	discarded int
	bailed    bool
	reason    string
	truncated bool
	line      int
	anomalies []Anomaly
}

// NewBuilder returns a Builder for one stream.
func NewBuilder() *Builder {
	return &Builder{docs: []*document{{}}}
}

// Add feeds one classified line to the builder.
func (b *Builder) Add(l Line) {
	b.line++
	if b.bailed {
		return
	}
	switch l.Kind {
	case KindYAMLStart:
		b.yaml = b.lastAt(l.Depth)
		if b.yaml != nil {
			b.yaml.YAML = []string{}
		}
	case KindYAMLLine:
		if b.yaml != nil {
			b.yaml.YAML = append(b.yaml.YAML, l.Raw)
		}
	case KindYAMLEnd:
		b.yaml = nil
	case KindBailOut:
		b.bail(l.Text)
	case KindVersion:
		if l.Depth == 0 {
			b.version = l.Version
			return
		}
		b.openTo(l.Depth)
	case KindPlan:
		b.addPlan(l)
	case KindTestPoint:
		b.addPoint(l)
	case KindDiagnostic:
		if l.Depth == b.top() {
			b.attach(Diagnostic{Text: l.Text})
			return
		}
		b.attach(Diagnostic{Text: l.Raw, Opaque: true})
	default:
		if l.Blank() {
			return
		}
		b.anomaly(AnomalyUnknownLine, "%q", l.Raw)
		b.attach(Diagnostic{Text: l.Raw, Opaque: true})
	}
}

// Take returns the top-level results completed since the last call.
func (b *Builder) Take() []*TestResult {
	out := b.ready
	b.ready = nil
	return out
}

// Finish closes the stream. Results that cannot be completed, because a
// subtest or YAML block is still open, are discarded.
func (b *Builder) Finish() {
	if b.bailed {
		return
	}
	if b.yaml != nil {
		b.truncated = true
		b.anomaly(AnomalyTruncated, "stream ended inside a YAML block")
		if b.yaml == b.current {
			b.current = nil
			b.points--
			b.discarded++
		}
	}
	if b.top() > 0 {
		b.truncated = true
		b.anomaly(AnomalyTruncated, "stream ended inside a subtest")
		b.docs = b.docs[:1]
		b.discarded++
	}
	b.seal()
}

// Version returns the declared TAP version of the stream, or 0.
func (b *Builder) Version() int { return b.version }

// Plan returns the top-level plan, or nil if none was declared.
func (b *Builder) Plan() *Plan { return b.docs[0].plan }

// Header returns the comments that preceded the first top-level result.
func (b *Builder) Header() []Diagnostic { return b.docs[0].header }

// Points returns the number of top-level results produced.
func (b *Builder) Points() int { return b.points }

// Discarded returns the number of top-level results dropped as incomplete.
func (b *Builder) Discarded() int { return b.discarded }

// BailOut reports whether the stream bailed out, and why.
func (b *Builder) BailOut() (string, bool) { return b.reason, b.bailed }

// Truncated reports whether the stream ended inside an unfinished construct.
func (b *Builder) Truncated() bool { return b.truncated }

// Anomalies returns the grammar problems seen so far.
func (b *Builder) Anomalies() []Anomaly { return b.anomalies }

func (b *Builder) top() int { return len(b.docs) - 1 }

func (b *Builder) bail(reason string) {
	b.bailed = true
	b.reason = reason
	if b.top() > 0 {
		b.docs = b.docs[:1]
		b.discarded++
	}
	b.seal()
}

// seal hands the current top-level result to the ready queue.
func (b *Builder) seal() {
	if b.current != nil {
		b.ready = append(b.ready, b.current)
		b.current = nil
	}
}

// openTo opens empty child documents until depth is the innermost level.
func (b *Builder) openTo(depth int) {
	if depth > b.top() {
		b.seal()
	}
	for b.top() < depth {
		b.docs = append(b.docs, &document{})
	}
}

// closeTo folds documents deeper than depth+1 into unnamed results, leaving
// depth+1 as the deepest open document.
func (b *Builder) closeTo(depth int) {
	for b.top() > depth+1 {
		orphan := &TestResult{}
		b.foldInto(orphan)
		b.anomaly(AnomalyOrphanSubtest, "subtest at depth %d has no parent test point", b.top()+1)
		b.place(b.top(), orphan)
	}
}

// foldInto pops the innermost document and makes it the subtest of n.
func (b *Builder) foldInto(n *TestResult) {
	doc := b.docs[b.top()]
	b.docs = b.docs[:b.top()]
	n.Subtest = true
	n.Children = doc.children
	n.Header = doc.header
	n.Plan = doc.plan
	if n.Plan == nil {
		b.anomaly(AnomalyMissingSubtestPlan, "subtest %q has no plan", n.Description)
	}
	if rollUp(n) {
		b.anomaly(AnomalySubtestPlanMismatch, "subtest %q planned %d, ran %d", n.Description, n.Plan.Count(), len(n.Children))
	}
}

func (b *Builder) addPoint(l Line) {
	d := l.Depth
	b.closeTo(d)
	n := &TestResult{
		OK:          l.Point.OK,
		Status:      leafStatus(l.Point.OK, l.Point.Directive),
		Declared:    l.Point.Number,
		HasNumber:   l.Point.HasNumber,
		Description: l.Point.Description,
		Directive:   l.Point.Directive,
		Reason:      l.Point.Reason,
	}
	if b.top() == d+1 {
		b.foldInto(n)
	}
	b.openTo(d)
	b.place(d, n)
}

// place appends a finished result to the document at depth.
func (b *Builder) place(depth int, n *TestResult) {
	if depth == 0 {
		b.seal()
		b.current = n
		b.points++
		return
	}
	doc := b.docs[depth]
	doc.children = append(doc.children, n)
	doc.last = n
}

func (b *Builder) addPlan(l Line) {
	d := l.Depth
	b.closeTo(d)
	if b.top() == d+1 {
		orphan := &TestResult{}
		b.foldInto(orphan)
		b.anomaly(AnomalyOrphanSubtest, "subtest at depth %d has no parent test point", d+1)
		b.place(d, orphan)
	}
	b.openTo(d)
	doc := b.docs[d]
	if doc.plan != nil {
		b.anomaly(AnomalyDuplicatePlan, "plan %s after %s", l.Plan, doc.plan)
		b.attach(Diagnostic{Text: l.Raw, Opaque: true})
		return
	}
	plan := l.Plan
	doc.plan = &plan
}

// attach adds a diagnostic to the innermost open context: the latest result
// of the innermost document, or that document's header.
func (b *Builder) attach(diag Diagnostic) {
	if b.top() == 0 {
		if b.current != nil {
			b.current.Diagnostics = append(b.current.Diagnostics, diag)
			return
		}
		b.docs[0].header = append(b.docs[0].header, diag)
		return
	}
	doc := b.docs[b.top()]
	if doc.last != nil {
		doc.last.Diagnostics = append(doc.last.Diagnostics, diag)
		return
	}
	doc.header = append(doc.header, diag)
}

// lastAt returns the most recent result at depth.
func (b *Builder) lastAt(depth int) *TestResult {
	if depth == 0 {
		return b.current
	}
	if depth <= b.top() {
		return b.docs[depth].last
	}
	return nil
}

func (b *Builder) anomaly(kind AnomalyKind, format string, args ...any) {
	b.anomalies = append(b.anomalies, Anomaly{Line: b.line, Kind: kind, Message: fmt.Sprintf(format, args...)})
}
