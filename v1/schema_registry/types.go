package schema_registry

import (
	"fmt"
	"strings"
)

// SchemaType is the format tag a registry stores next to every schema.
type SchemaType string

const (
	SchemaTypeAvro     SchemaType = "AVRO"
	SchemaTypeJSON     SchemaType = "JSON"
	SchemaTypeProtobuf SchemaType = "PROTOBUF"
)

// Normalize upper-cases t. The empty tag means AVRO, as on the Confluent wire.
func (t SchemaType) Normalize() SchemaType {
	if t == "" {
		return SchemaTypeAvro
	}
	return SchemaType(strings.ToUpper(string(t)))
}

// CompatibilityLevel is the evolution rule a registry enforces per subject.
type CompatibilityLevel string

const (
	CompatibilityNone               CompatibilityLevel = "NONE"
	CompatibilityBackward           CompatibilityLevel = "BACKWARD"
	CompatibilityBackwardTransitive CompatibilityLevel = "BACKWARD_TRANSITIVE"
	CompatibilityForward            CompatibilityLevel = "FORWARD"
	CompatibilityForwardTransitive  CompatibilityLevel = "FORWARD_TRANSITIVE"
	CompatibilityFull               CompatibilityLevel = "FULL"
	CompatibilityFullTransitive     CompatibilityLevel = "FULL_TRANSITIVE"
)

var compatibilityLevels = []CompatibilityLevel{
	CompatibilityNone,
	CompatibilityBackward,
	CompatibilityBackwardTransitive,
	CompatibilityForward,
	CompatibilityForwardTransitive,
	CompatibilityFull,
	CompatibilityFullTransitive,
}

// ParseCompatibilityLevel parses s case-insensitively.
func ParseCompatibilityLevel(s string) (CompatibilityLevel, error) {
	candidate := CompatibilityLevel(strings.ToUpper(strings.TrimSpace(s)))
	for _, level := range compatibilityLevels {
		if candidate == level {
			return level, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCompatibilityLevel, s)
}

// Backward reports whether consumers on the new schema must read old data.
func (l CompatibilityLevel) Backward() bool {
	switch l {
	case CompatibilityBackward, CompatibilityBackwardTransitive, CompatibilityFull, CompatibilityFullTransitive:
		return true
	}
	return false
}

// Forward reports whether consumers on the old schema must read new data.
func (l CompatibilityLevel) Forward() bool {
	switch l {
	case CompatibilityForward, CompatibilityForwardTransitive, CompatibilityFull, CompatibilityFullTransitive:
		return true
	}
	return false
}

// Transitive reports whether the rule applies to every earlier version
// rather than only the latest one.
func (l CompatibilityLevel) Transitive() bool {
	return strings.HasSuffix(string(l), "_TRANSITIVE")
}

// Role says whether a schema describes message keys or message values.
type Role string

const (
	RoleKey   Role = "key"
	RoleValue Role = "value"
)

// SubjectName derives the TopicNameStrategy subject for topic and role,
// e.g. "customer_events-value". An empty role means RoleValue.
func SubjectName(topic string, role Role) string {
	if role == "" {
		role = RoleValue
	}
	return topic + "-" + string(role)
}

// Reference points at another registered schema a schema depends on.
type Reference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}

// Schema is a schema definition as submitted to a registry.
type Schema struct {
	Schema     string      `json:"schema"`
	SchemaType SchemaType  `json:"schemaType,omitempty"`
	References []Reference `json:"references,omitempty"`
}

// RegisteredSchema is a schema as stored by a registry under a subject.
// Only a registry creates these; ID and Version are never reused.
type RegisteredSchema struct {
	Subject    string      `json:"subject"`
	ID         int         `json:"id"`
	Version    int         `json:"version"`
	Schema     string      `json:"schema"`
	SchemaType SchemaType  `json:"schemaType,omitempty"`
	References []Reference `json:"references,omitempty"`
}

// AsSchema drops the registry-assigned identity.
func (r RegisteredSchema) AsSchema() Schema {
	return Schema{
		Schema:     r.Schema,
		SchemaType: r.SchemaType.Normalize(),
		References: r.References,
	}
}
