package codec

import (
	"fmt"

	"github.com/hamba/avro/v2"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// AvroBinder binds Avro schemas using binary Avro encoding. Records are
// structs with avro tags or map[string]any; decoding yields map[string]any.
type AvroBinder struct{}

func (AvroBinder) Format() registry.SchemaType {
	return registry.SchemaTypeAvro
}

func (AvroBinder) Bind(schema string) (Binding, error) {
	parsed, err := parseAvro(schema)
	if err != nil {
		return nil, fmt.Errorf("parse avro schema: %w", err)
	}
	return &avroBinding{schema: parsed}, nil
}

type avroBinding struct {
	schema avro.Schema
}

func (b *avroBinding) Encode(record any) ([]byte, error) {
	return avro.Marshal(b.schema, record)
}

func (b *avroBinding) Decode(payload []byte) (any, error) {
	var out any
	if err := avro.Unmarshal(b.schema, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *avroBinding) Resolve(writer string) (Binding, error) {
	ws, err := parseAvro(writer)
	if err != nil {
		return nil, fmt.Errorf("parse writer schema: %w", err)
	}
	resolved, err := avro.NewSchemaCompatibility().Resolve(b.schema, ws)
	if err != nil {
		return nil, fmt.Errorf("resolve writer schema: %w", err)
	}
	return &avroBinding{schema: resolved}, nil
}

// parseAvro uses a private cache so named types of different versions of
// one record never collide.
func parseAvro(raw string) (avro.Schema, error) {
	return avro.ParseWithCache(raw, "", &avro.SchemaCache{})
}
