package codec

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// JSONBinder binds JSON Schema documents. Payloads are plain JSON validated
// against the schema on both encode and decode.
type JSONBinder struct{}

func (JSONBinder) Format() registry.SchemaType {
	return registry.SchemaTypeJSON
}

func (JSONBinder) Bind(schema string) (Binding, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal([]byte(schema), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into jsonschema.Schema: %w", err)
	}
	resolved, err := s.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve JSON schema: %w", err)
	}
	return &jsonBinding{schema: resolved}, nil
}

type jsonBinding struct {
	schema *jsonschema.Resolved
}

func (b *jsonBinding) Encode(record any) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	// Validate the JSON tree, not the Go value, so structs are checked by
	// their encoded field names.
	if _, err := b.validate(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *jsonBinding) Decode(payload []byte) (any, error) {
	return b.validate(payload)
}

func (b *jsonBinding) Resolve(writer string) (Binding, error) {
	return JSONBinder{}.Bind(writer)
}

func (b *jsonBinding) validate(payload []byte) (any, error) {
	var tree any
	if err := json.Unmarshal(payload, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON data: %w", err)
	}
	if err := b.schema.Validate(tree); err != nil {
		return nil, fmt.Errorf("JSON validation failed: %w", err)
	}
	return tree, nil
}
