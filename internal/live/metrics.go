package live

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer, which records nothing.
type Metrics struct {
	activeSubscriptions prometheus.Gauge
	activeQueries       prometheus.Gauge
	evaluations         *prometheus.CounterVec
	evaluationSeconds   *prometheus.HistogramVec
	invalidations       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		activeSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gigmarket",
			Subsystem: "live",
			Name:      "subscriptions",
			Help:      "Open live query subscriptions.",
		}),
		activeQueries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gigmarket",
			Subsystem: "live",
			Name:      "queries",
			Help:      "Distinct live queries being observed.",
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigmarket",
			Subsystem: "live",
			Name:      "evaluations_total",
			Help:      "Live query evaluations by operation and result.",
		}, []string{"op", "result"}),
		evaluationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gigmarket",
			Subsystem: "live",
			Name:      "evaluation_seconds",
			Help:      "Live query evaluation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigmarket",
			Subsystem: "live",
			Name:      "invalidations_total",
			Help:      "Table invalidations received by the hub.",
		}, []string{"table"}),
	}
	reg.MustRegister(
		m.activeSubscriptions,
		m.activeQueries,
		m.evaluations,
		m.evaluationSeconds,
		m.invalidations,
	)
	return m
}

func (m *Metrics) subscriptions(delta float64) {
	if m == nil {
		return
	}
	m.activeSubscriptions.Add(delta)
}

func (m *Metrics) queries(delta float64) {
	if m == nil {
		return
	}
	m.activeQueries.Add(delta)
}

func (m *Metrics) evaluation(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.evaluations.WithLabelValues(op, result).Inc()
	m.evaluationSeconds.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) invalidation(table string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(table).Inc()
}
