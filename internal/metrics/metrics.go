// Package metrics exposes plan pipeline counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mind-engage/mindengage-batches/internal/plan"
)

var _ plan.Metrics = (*PrometheusCollector)(nil)

// PrometheusCollector implements plan.Metrics with Prometheus collectors.
type PrometheusCollector struct {
	plansGenerated prometheus.Counter
	plansCached    prometheus.Counter
	students       prometheus.Histogram
	batches        prometheus.Histogram
	filesRejected  prometheus.Counter
	rowsRejected   prometheus.Counter
	warnings       prometheus.Counter
}

// NewPrometheus registers the collectors on reg (prometheus.DefaultRegisterer
// when nil) under namespace ("batches" when empty).
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "batches"
	}

	p := &PrometheusCollector{
		plansGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "generated_total",
			Help:      "Plans built from scratch.",
		}),
		plansCached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "cache_hits_total",
			Help:      "Plan requests answered from the content-hash cache.",
		}),
		students: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "students",
			Help:      "Students placed per generated plan.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10), // 5 .. 2560
		}),
		batches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "batches",
			Help:      "Batches per generated plan.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		filesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "files_rejected_total",
			Help:      "Input files discarded as a whole.",
		}),
		rowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "rows_rejected_total",
			Help:      "Input rows dropped because of a malformed name or score.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "quality_warnings_total",
			Help:      "Accepted rows whose percentage fell outside 0-100.",
		}),
	}
	reg.MustRegister(p.plansGenerated, p.plansCached, p.students, p.batches,
		p.filesRejected, p.rowsRejected, p.warnings)
	return p
}

func (p *PrometheusCollector) PlanGenerated(students, batches int) {
	p.plansGenerated.Inc()
	p.students.Observe(float64(students))
	p.batches.Observe(float64(batches))
}

func (p *PrometheusCollector) PlanCached()         { p.plansCached.Inc() }
func (p *PrometheusCollector) FilesRejected(n int) { p.filesRejected.Add(float64(n)) }
func (p *PrometheusCollector) RowsRejected(n int)  { p.rowsRejected.Add(float64(n)) }
func (p *PrometheusCollector) Warnings(n int)      { p.warnings.Add(float64(n)) }
