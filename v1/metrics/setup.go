package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing application metrics. It implements observability.Observer,
// so registry calls, schema store reads and reconciliation runs are counted
// once it is passed to those components.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationBytes    *prometheus.CounterVec
	reconcileTotal    *prometheus.CounterVec
}

// NewMetrics sets up a dedicated Prometheus registry, wraps all metrics with
// a constant `service` label and creates an HTTP server exposing /metrics.
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090"})
//	client := schema_registry.WithObserver(base, m)
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	cfg = cfg.withDefaults()

	registry := prometheus.NewRegistry()

	// All metrics emitted by this service carry service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.operationsTotal = createCounterVec(cfg.Namespace, "operations_total",
		"Total number of observed operations", []string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec(cfg.Namespace, "operation_duration_seconds",
		"Duration of observed operations in seconds", []string{"component", "operation"}, prometheus.DefBuckets)
	m.operationBytes = createCounterVec(cfg.Namespace, "operation_bytes_total",
		"Bytes read or written by observed operations", []string{"component", "operation"})
	m.reconcileTotal = createCounterVec(cfg.Namespace, "reconcile_total",
		"Reconciliation runs by terminal state", []string{"state"})

	wrappedRegistry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.operationBytes,
		m.reconcileTotal,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return m
}
