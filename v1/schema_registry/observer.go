package schema_registry

import (
	"context"
	"strconv"
	"time"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
)

type observedClient struct {
	next     Client
	observer observability.Observer
}

// WithObserver reports every call made through next to observer.
// A nil observer returns next unchanged.
func WithObserver(next Client, observer observability.Observer) Client {
	if observer == nil {
		return next
	}
	return &observedClient{next: next, observer: observer}
}

func (o *observedClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	start := time.Now()
	registered, err := o.next.LookupLatest(ctx, subject)
	o.observeOperation("lookup_latest", subject, versionOf(registered), time.Since(start), err, sizeOf(registered), nil)
	return registered, err
}

func (o *observedClient) Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error) {
	start := time.Now()
	registered, err := o.next.Register(ctx, subject, schema)
	o.observeOperation("register", subject, versionOf(registered), time.Since(start), err, int64(len(schema.Schema)), map[string]interface{}{
		"schema_type": string(schema.SchemaType.Normalize()),
	})
	return registered, err
}

func (o *observedClient) TestCompatibility(ctx context.Context, subject string, schema Schema) (bool, error) {
	start := time.Now()
	ok, err := o.next.TestCompatibility(ctx, subject, schema)
	o.observeOperation("test_compatibility", subject, "", time.Since(start), err, int64(len(schema.Schema)), map[string]interface{}{
		"compatible": ok,
	})
	return ok, err
}

func (o *observedClient) SetCompatibilityLevel(ctx context.Context, subject string, level CompatibilityLevel) error {
	start := time.Now()
	err := o.next.SetCompatibilityLevel(ctx, subject, level)
	o.observeOperation("set_compatibility", subject, string(level), time.Since(start), err, 0, nil)
	return err
}

func (o *observedClient) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	start := time.Now()
	schema, err := o.next.GetSchemaByID(ctx, id)
	var size int64
	if schema != nil {
		size = int64(len(schema.Schema))
	}
	o.observeOperation("get_schema_by_id", strconv.Itoa(id), "", time.Since(start), err, size, nil)
	return schema, err
}

func (o *observedClient) Close() error {
	return o.next.Close()
}

// observeOperation notifies the observer about a registry call.
//
// Notes:
//   - resource: the subject (or schema id for lookups by id)
//   - subResource: the schema version or compatibility level involved
func (o *observedClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if o == nil || o.observer == nil {
		return
	}

	o.observer.ObserveOperation(observability.OperationContext{
		Component:   "schema_registry",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func versionOf(registered *RegisteredSchema) string {
	if registered == nil {
		return ""
	}
	return strconv.Itoa(registered.Version)
}

func sizeOf(registered *RegisteredSchema) int64 {
	if registered == nil {
		return 0
	}
	return int64(len(registered.Schema))
}
