package codec

import (
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// Binder turns schema text of one format into a Binding. Formats are added
// to a Factory by registering a Binder; nothing else needs to change.
type Binder interface {
	Format() registry.SchemaType
	Bind(schema string) (Binding, error)
}

// Binding encodes and decodes frame payloads against one bound schema.
type Binding interface {
	Encode(record any) ([]byte, error)
	Decode(payload []byte) (any, error)

	// Resolve returns a Binding that decodes payloads written with writer
	// into the shape of this binding's schema.
	Resolve(writer string) (Binding, error)
}
