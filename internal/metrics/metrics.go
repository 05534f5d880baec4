// Package metrics records the outcome of a run as Prometheus gauges and
// writes them in the textfile format read by node_exporter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chriskuehl/tap2tap/internal/summary"
	"github.com/chriskuehl/tap2tap/internal/tap"
)

const MetricsNamespace = "tap2tap"

var (
	statuses  = []tap.Status{tap.StatusPass, tap.StatusFail, tap.StatusSkip, tap.StatusTodo}
	terminals = []tap.Terminal{tap.Completed, tap.BailedOut, tap.Truncated}
)

// Recorder holds the gauges of one run in its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	tests     *prometheus.GaugeVec
	sources   *prometheus.GaugeVec
	discarded prometheus.Gauge
	plan      prometheus.Gauge
	exitCode  prometheus.Gauge
}

// NewRecorder returns a Recorder with all gauges registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		tests: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "tests",
			Help:      "Top-level test points in the merged stream by status",
		}, []string{"status"}),
		sources: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "sources",
			Help:      "Sources read by how they ended",
		}, []string{"terminal"}),
		discarded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "discarded_tests",
			Help:      "Incomplete test points dropped from truncated sources",
		}),
		plan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "plan_tests",
			Help:      "Test count of the unified plan",
		}),
		exitCode: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "exit_code",
			Help:      "Exit code of the run",
		}),
	}
}

// Registry returns the registry the gauges live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe sets every gauge from s. Label values that did not occur are set to
// zero so that each series is always present.
func (r *Recorder) Observe(s summary.Summary) {
	counts := map[tap.Status]int{
		tap.StatusPass: s.Passed,
		tap.StatusFail: s.Failed,
		tap.StatusSkip: s.Skipped,
		tap.StatusTodo: s.Todo,
	}
	for _, st := range statuses {
		r.tests.WithLabelValues(st.String()).Set(float64(counts[st]))
	}

	byTerminal := make(map[tap.Terminal]int)
	for _, src := range s.Sources {
		byTerminal[src.Terminal]++
	}
	for _, term := range terminals {
		r.sources.WithLabelValues(term.String()).Set(float64(byTerminal[term]))
	}

	r.discarded.Set(float64(s.Discarded))
	r.plan.Set(float64(s.Plan.Count()))
	r.exitCode.Set(float64(s.ExitCode()))
}

// WriteTextfile writes the gauges to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
