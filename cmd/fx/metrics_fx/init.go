package metrics_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"telecore/internal/metrics"
)

var Module = fx.Provide(
	metrics.NewRegistry,
	provideLifecycleMetrics,
)

func provideLifecycleMetrics(registry *prometheus.Registry) metrics.LifecycleMetrics {
	return metrics.NewLifecycleMetrics(registry)
}
