package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ConfigUpdates      prometheus.Counter
	ConfigRejections   prometheus.Counter
	ConfigRollbacks    prometheus.Counter
	ListenerFailures   prometheus.Counter
	DomainBinds        prometheus.Counter
	DomainBindFailures prometheus.Counter
	IdleDomainDrops    prometheus.Counter
	IdleTimeoutSeconds prometheus.Gauge
	UpdateDurationMs   prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ConfigUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_config_updates_total",
			Help: "Total number of accepted configuration updates",
		}),
		ConfigRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_config_rejections_total",
			Help: "Total number of configuration updates rejected during validation",
		}),
		ConfigRollbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_config_rollbacks_total",
			Help: "Total number of published configurations rolled back after a domain failure",
		}),
		ListenerFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_listener_failures_total",
			Help: "Total number of change listeners that failed during a notification round",
		}),
		DomainBinds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_domain_binds_total",
			Help: "Total number of resource domains bound",
		}),
		DomainBindFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_domain_bind_failures_total",
			Help: "Total number of resource domain bind attempts that failed",
		}),
		IdleDomainDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confgate_idle_domain_drops_total",
			Help: "Total number of resource domains dropped by the idle watchdog",
		}),
		IdleTimeoutSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "confgate_idle_timeout_seconds",
			Help: "Currently configured maximum idle duration in seconds",
		}),
		UpdateDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "confgate_config_update_duration_ms",
			Help:    "Latency of configuration updates in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}),
	}
}

// IncrementConfigUpdates increments the accepted updates counter by 1
func (m *Metrics) IncrementConfigUpdates() {
	m.ConfigUpdates.Inc()
}

// IncrementConfigRejections increments the rejected updates counter by 1
func (m *Metrics) IncrementConfigRejections() {
	m.ConfigRejections.Inc()
}

// IncrementConfigRollbacks increments the rollback counter by 1
func (m *Metrics) IncrementConfigRollbacks() {
	m.ConfigRollbacks.Inc()
}

// IncrementListenerFailures increments the listener failure counter by 1
func (m *Metrics) IncrementListenerFailures() {
	m.ListenerFailures.Inc()
}

// IncrementDomainBinds increments the domain bind counter by 1
func (m *Metrics) IncrementDomainBinds() {
	m.DomainBinds.Inc()
}

// IncrementDomainBindFailures increments the bind failure counter by 1
func (m *Metrics) IncrementDomainBindFailures() {
	m.DomainBindFailures.Inc()
}

// IncrementIdleDomainDrops increments the idle drop counter by 1
func (m *Metrics) IncrementIdleDomainDrops() {
	m.IdleDomainDrops.Inc()
}

// SetIdleTimeout records the currently configured idle duration
func (m *Metrics) SetIdleTimeout(seconds float64) {
	m.IdleTimeoutSeconds.Set(seconds)
}

// ObserveUpdateDuration records one update's latency in milliseconds
func (m *Metrics) ObserveUpdateDuration(ms float64) {
	m.UpdateDurationMs.Observe(ms)
}
