package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Tracked             prometheus.Counter
	Dropped             *prometheus.CounterVec
	SinkFailures        prometheus.Counter
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Tracked: f.NewCounter(prometheus.CounterOpts{
			Name: "missionsuivi_audit_ops_tracked_total",
			Help: "Total number of operational audit events delivered to the sink",
		}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "missionsuivi_audit_ops_dropped_total",
			Help: "Total number of operational audit events dropped",
		}, []string{"reason"}),
		SinkFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "missionsuivi_audit_ops_sink_failures_total",
			Help: "Total number of operational audit sink write failures",
		}),
		CircuitBreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "missionsuivi_audit_ops_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncTracked() {
	m.Tracked.Inc()
}

func (m *Metrics) IncDropped(reason string) {
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncSinkFailures() {
	m.SinkFailures.Inc()
}

func (m *Metrics) SetCircuitBreakerState(open bool) {
	if open {
		m.CircuitBreakerState.Set(1)
		return
	}
	m.CircuitBreakerState.Set(0)
}
