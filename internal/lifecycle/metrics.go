package lifecycle

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts controller operations.
type Metrics struct {
	actions  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics registers the controller counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alertflow",
			Name:      "actions_total",
			Help:      "Alert lifecycle actions recorded in the action log.",
		}, []string{"action"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alertflow",
			Name:      "operation_failures_total",
			Help:      "Controller operations that returned an error.",
		}, []string{"operation"}),
	}
	reg.MustRegister(m.actions, m.failures)
	return m
}

func (m *Metrics) recordAction(action string) {
	if m != nil {
		m.actions.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) recordFailure(op string) {
	if m != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}
