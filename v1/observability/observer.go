// Package observability defines the hook through which schemasync components
// report the operations they perform.
//
// Components never depend on a concrete metrics or tracing backend. Instead they
// accept an optional Observer and describe each finished operation with an
// OperationContext. The metrics package ships an Observer backed by Prometheus.
package observability

import "time"

// Observer receives a notification after every observed operation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "schemaregistry" or "kafka".
	Component string

	// Operation is the action performed, e.g. "lookup_latest" or "publish".
	Operation string

	// Resource is the primary target, e.g. a subject or topic name.
	Resource string

	// SubResource adds detail below Resource, e.g. a schema version or partition.
	SubResource string

	Duration time.Duration

	// Error is nil when the operation succeeded.
	Error error

	// Size is the payload size in bytes when meaningful, otherwise 0.
	Size int64

	Metadata map[string]interface{}
}

// Status returns "success" or "error" depending on ctx.Error.
func (ctx OperationContext) Status() string {
	if ctx.Error != nil {
		return "error"
	}
	return "success"
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
