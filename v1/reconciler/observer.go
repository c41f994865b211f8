package reconciler

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
)

// observe reports a finished run. SubResource carries the terminal state.
func (e *Engine) observe(r *run, err error) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveOperation(observability.OperationContext{
		Component:   "reconciler",
		Operation:   "reconcile",
		Resource:    e.subject,
		SubResource: string(r.state()),
		Duration:    time.Since(r.start),
		Error:       err,
		Metadata: map[string]interface{}{
			"transitions": path(r.transitions),
			"writes":      r.writes,
		},
	})
}

func (e *Engine) fields(extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{"subject": e.subject}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func (e *Engine) logDebug(ctx context.Context, msg string, fields map[string]interface{}) {
	if e.logger != nil {
		e.logger.DebugWithContext(ctx, msg, nil, e.fields(fields))
	}
}

func (e *Engine) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if e.logger != nil {
		e.logger.InfoWithContext(ctx, msg, nil, e.fields(fields))
	}
}

func (e *Engine) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if e.logger != nil {
		e.logger.WarnWithContext(ctx, msg, err, e.fields(fields))
	}
}

func (e *Engine) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if e.logger != nil {
		e.logger.ErrorWithContext(ctx, msg, err, e.fields(fields))
	}
}
