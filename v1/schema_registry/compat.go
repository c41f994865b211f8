package schema_registry

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hamba/avro/v2"
)

// ValidateSchema parses schema according to its type. AVRO must be a valid
// Avro schema, JSON must be well-formed JSON. Other types are accepted as is.
func ValidateSchema(schema Schema) error {
	switch schema.SchemaType.Normalize() {
	case SchemaTypeAvro:
		if _, err := parseAvro(schema.Schema); err != nil {
			return err
		}
	case SchemaTypeJSON:
		if !json.Valid([]byte(schema.Schema)) {
			return fmt.Errorf("json schema is not valid JSON")
		}
	}
	return nil
}

// CheckCompatibility reports whether candidate may follow history (oldest
// first) under level. Only AVRO schemas are evaluated; other types are
// always compatible.
func CheckCompatibility(level CompatibilityLevel, candidate Schema, history []string) (bool, string, error) {
	if level == CompatibilityNone || len(history) == 0 {
		return true, "", nil
	}
	if candidate.SchemaType.Normalize() != SchemaTypeAvro {
		return true, "", nil
	}

	next, err := parseAvro(candidate.Schema)
	if err != nil {
		return false, "", err
	}

	targets := history
	if !level.Transitive() {
		targets = history[len(history)-1:]
	}

	checker := avro.NewSchemaCompatibility()
	for i, raw := range targets {
		prev, err := parseAvro(raw)
		if err != nil {
			return false, "", fmt.Errorf("parse existing schema: %w", err)
		}
		if level.Backward() {
			if err := checker.Compatible(next, prev); err != nil {
				return false, fmt.Sprintf("new schema cannot read data written with version %d: %v", versionIndex(history, targets, i), err), nil
			}
		}
		if level.Forward() {
			if err := checker.Compatible(prev, next); err != nil {
				return false, fmt.Sprintf("version %d cannot read data written with new schema: %v", versionIndex(history, targets, i), err), nil
			}
		}
	}
	return true, "", nil
}

// versionIndex maps a position in targets back to a 1-based version number.
func versionIndex(history, targets []string, i int) int {
	return len(history) - len(targets) + i + 1
}

// parseAvro parses with a private cache so that named types of different
// schemas never collide.
func parseAvro(raw string) (avro.Schema, error) {
	return avro.ParseWithCache(raw, "", &avro.SchemaCache{})
}

// contentKey identifies schema content independent of insignificant
// whitespace.
func contentKey(schema Schema) string {
	var buf bytes.Buffer
	text := strings.TrimSpace(schema.Schema)
	if err := json.Compact(&buf, []byte(text)); err == nil {
		text = buf.String()
	}
	refs, _ := json.Marshal(schema.References)
	sum := sha256.Sum256([]byte(string(schema.SchemaType.Normalize()) + "\x00" + text + "\x00" + string(refs)))
	return hex.EncodeToString(sum[:])
}
