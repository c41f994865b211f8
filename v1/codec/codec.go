package codec

import (
	"context"
	"fmt"
	"sync"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// SerializationContext says where a payload travels: the topic and whether
// it is the message key or value.
type SerializationContext struct {
	Topic string
	Field registry.Role
}

// Codec encodes records under one registered schema and decodes frames of
// that schema or, through a SchemaResolver, of earlier ones. It is safe for
// concurrent use.
type Codec struct {
	schema   registry.RegisteredSchema
	format   registry.SchemaType
	binding  Binding
	resolver SchemaResolver
	strategy SubjectNameStrategy

	mu      sync.RWMutex
	writers map[int]Binding
}

// ID returns the global id of the writer schema.
func (c *Codec) ID() int {
	return c.schema.ID
}

// Subject returns the subject the codec is bound to.
func (c *Codec) Subject() string {
	return c.schema.Subject
}

// Version returns the subject version of the writer schema.
func (c *Codec) Version() int {
	return c.schema.Version
}

// Format returns the schema type the codec encodes.
func (c *Codec) Format() registry.SchemaType {
	return c.format
}

// Schema returns the registered schema the codec is bound to.
func (c *Codec) Schema() registry.RegisteredSchema {
	return c.schema
}

// Encode serializes record and prepends the wire header.
func (c *Codec) Encode(record any) ([]byte, error) {
	payload, err := c.binding.Encode(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s record for %s: %w", c.format, c.schema.Subject, err)
	}
	buf := make([]byte, 0, headerSize+len(payload))
	buf = appendHeader(buf, c.schema.ID)
	return append(buf, payload...), nil
}

// Decode parses a frame. When sctx names a topic, the subject it maps to
// must be the codec's subject.
func (c *Codec) Decode(ctx context.Context, data []byte, sctx SerializationContext) (any, error) {
	if sctx.Topic != "" {
		if subject := c.strategy(sctx.Topic, sctx.Field); subject != c.schema.Subject {
			return nil, fmt.Errorf("%w: %s %s maps to %s, codec is bound to %s",
				ErrSubjectMismatch, sctx.Topic, sctx.Field, subject, c.schema.Subject)
		}
	}

	id, payload, err := DecodeSchemaID(data)
	if err != nil {
		return nil, err
	}

	binding := c.binding
	if id != c.schema.ID {
		binding, err = c.writer(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	record, err := binding.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s payload of schema %d: %w", c.format, id, err)
	}
	return record, nil
}

// writer returns the binding for frames written under id, resolving and
// caching it on first use.
func (c *Codec) writer(ctx context.Context, id int) (Binding, error) {
	c.mu.RLock()
	binding, ok := c.writers[id]
	c.mu.RUnlock()
	if ok {
		return binding, nil
	}

	if c.resolver == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSchemaID, id)
	}
	schema, err := c.resolver.GetSchemaByID(ctx, id)
	if err != nil {
		if registry.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %d: %w", ErrUnknownSchemaID, id, err)
		}
		return nil, fmt.Errorf("resolve schema %d: %w", id, err)
	}
	if format := schema.SchemaType.Normalize(); format != c.format {
		return nil, fmt.Errorf("%w: schema %d is %s, codec is %s", ErrUnsupportedFormat, id, format, c.format)
	}

	binding, err = c.binding.Resolve(schema.Schema)
	if err != nil {
		return nil, fmt.Errorf("schema %d: %w", id, err)
	}

	c.mu.Lock()
	c.writers[id] = binding
	c.mu.Unlock()
	return binding, nil
}
