package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LifecycleMetrics counts subscription transitions, ledger writes and sweep runs.
type LifecycleMetrics interface {
	IncSubscriptionEvent(event string)
	AddSubscriptionEvents(event string, n int)
	IncTransaction(txType, status string)
	IncRejected(reason string)
	ObserveSweep(expired, failed int)
}

type lifecycleMetrics struct {
	subscriptionEvents *prometheus.CounterVec
	transactions       *prometheus.CounterVec
	rejected           *prometheus.CounterVec
	sweepRuns          prometheus.Counter
	sweepExpired       prometheus.Counter
	sweepFailures      prometheus.Counter
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func NewLifecycleMetrics(registry *prometheus.Registry) LifecycleMetrics {
	factory := promauto.With(registry)
	return &lifecycleMetrics{
		subscriptionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_lifecycle_events_total",
				Help: "Subscription lifecycle events by kind",
			},
			[]string{"event"},
		),
		transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_total",
				Help: "Ledger records written, by type and status",
			},
			[]string{"type", "status"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_requests_rejected_total",
				Help: "Subscribe or reactivate requests rejected by a lifecycle rule",
			},
			[]string{"reason"},
		),
		sweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "expiry_sweep_runs_total",
			Help: "Completed expiry sweeps",
		}),
		sweepExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "expiry_sweep_expired_total",
			Help: "Subscriptions moved to EXPIRED by the sweep",
		}),
		sweepFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "expiry_sweep_row_failures_total",
			Help: "Rows the sweep failed to transition",
		}),
	}
}

func (m *lifecycleMetrics) IncSubscriptionEvent(event string) {
	m.subscriptionEvents.WithLabelValues(event).Inc()
}

func (m *lifecycleMetrics) AddSubscriptionEvents(event string, n int) {
	if n <= 0 {
		return
	}
	m.subscriptionEvents.WithLabelValues(event).Add(float64(n))
}

func (m *lifecycleMetrics) IncTransaction(txType, status string) {
	m.transactions.WithLabelValues(txType, status).Inc()
}

func (m *lifecycleMetrics) IncRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *lifecycleMetrics) ObserveSweep(expired, failed int) {
	m.sweepRuns.Inc()
	m.sweepExpired.Add(float64(expired))
	m.sweepFailures.Add(float64(failed))
}
