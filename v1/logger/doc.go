// Package logger provides the structured logger used across schemasync.
//
// It wraps go.uber.org/zap with a small, map-based API so that packages can
// depend on a narrow Logger interface instead of on zap directly:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "schemasync",
//		EnableTracing: true,
//	})
//
//	log.Info("reconciliation finished", nil, map[string]interface{}{
//		"subject": "customer_events-value",
//		"state":   "READY",
//	})
//
//	// trace_id and span_id are added when ctx carries an active span
//	log.ErrorWithContext(ctx, "registry call failed", err, nil)
//
// Entries are JSON encoded, carry an ISO8601 "timestamp", the process id and
// the configured service name, and go to stderr.
//
// Configuration:
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=schemasync
//	LOGGER_ENABLE_TRACING=true
//
// FXModule provides *LoggerClient from a Config and syncs it on shutdown.
//
// All methods are safe for concurrent use.
package logger
