package metrics

import (
	"github.com/Aleph-Alpha/schemasync/v1/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// ObserveOperation records ctx. Reconciliation runs additionally count by
// their terminal state, which the reconciler reports as SubResource.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, ctx.Status()).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Size > 0 {
		m.operationBytes.WithLabelValues(ctx.Component, ctx.Operation).Add(float64(ctx.Size))
	}
	if ctx.Component == "reconciler" && ctx.Operation == "reconcile" {
		m.reconcileTotal.WithLabelValues(ctx.SubResource).Inc()
	}
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
