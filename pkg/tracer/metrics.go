package tracer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"strgrad/pkg/heuristic"
	"strgrad/pkg/replacement"
)

// MetricsReporter 把上报转成Prometheus指标后再转发给下游
type MetricsReporter struct {
	next      replacement.Reporter
	nextHints replacement.HintSink

	evaluations   *prometheus.CounterVec
	oppositeScore *prometheus.HistogramVec
	hints         *prometheus.CounterVec
}

// NewMetricsReporter 在reg上注册指标；next/nextHints 可为nil
func NewMetricsReporter(reg prometheus.Registerer, namespace string, next replacement.Reporter, nextHints replacement.HintSink) *MetricsReporter {
	factory := promauto.With(reg)
	return &MetricsReporter{
		next:      next,
		nextHints: nextHints,
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Instrumented predicate evaluations by result kind and branch taken",
		}, []string{"kind", "branch"}),
		oppositeScore: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "opposite_branch_score",
			Help:      "Truthness score of the branch not taken",
			Buckets:   []float64{1e-9, 1e-6, 1e-3, 0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 1},
		}, []string{"kind"}),
		hints: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "specialization_hints_total",
			Help:      "Specialization hints discovered by kind",
		}, []string{"kind"}),
	}
}

// Record 实现 replacement.Reporter
func (m *MetricsReporter) Record(loc replacement.Location, kind replacement.ResultKind, t heuristic.Truthness) {
	branch, opposite := "false", t.OfTrue
	if t.IsTrue() {
		branch, opposite = "true", t.OfFalse
	}
	m.evaluations.WithLabelValues(kind.String(), branch).Inc()
	m.oppositeScore.WithLabelValues(kind.String()).Observe(opposite)

	if m.next != nil {
		m.next.Record(loc, kind, t)
	}
}

// RecordHint 实现 replacement.HintSink
func (m *MetricsReporter) RecordHint(tracked string, hint replacement.Hint) {
	m.hints.WithLabelValues(hint.Kind.String()).Inc()
	if m.nextHints != nil {
		m.nextHints.RecordHint(tracked, hint)
	}
}
