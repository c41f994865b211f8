// Package tracer configures OpenTelemetry tracing.
//
// NewClient installs a global TracerProvider, optionally exporting over
// OTLP/HTTP. Spans started by the reconciler and by the Kafka adapter are
// recorded through it, and the Kafka adapter carries the trace context in
// message headers with GetCarrier and SetCarrierOnContext.
package tracer
