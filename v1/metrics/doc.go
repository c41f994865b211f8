// Package metrics exposes Prometheus metrics for schemasync.
//
// Metrics implements observability.Observer. Hand it to the registry client,
// the schema store and the reconciler (or let FXModule provide it) and the
// following series are exported with a constant service label:
//
//	schemasync_operations_total{component,operation,status}
//	schemasync_operation_duration_seconds{component,operation}
//	schemasync_operation_bytes_total{component,operation}
//	schemasync_reconcile_total{state}
//
// Direct usage:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
//
// Access metrics at: http://localhost:9090/metrics
package metrics
