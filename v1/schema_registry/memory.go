package schema_registry

import (
	"context"
	"sync"
)

// MemoryClient is an in-process registry with the same observable behavior
// as a Confluent registry: global ids shared by identical content, forward
// only versions per subject, per subject compatibility levels, and
// enforcement of the level on Register.
//
// It is used for local runs (Config.Type "memory") and in tests.
type MemoryClient struct {
	mu sync.Mutex

	nextID       int
	ids          map[string]int
	schemas      map[int]Schema
	subjects     map[string][]RegisteredSchema
	levels       map[string]CompatibilityLevel
	defaultLevel CompatibilityLevel
	closed       bool
}

// MemoryOption configures a MemoryClient.
type MemoryOption func(*MemoryClient)

// WithDefaultCompatibility sets the level used for subjects without an
// explicit level. The default is BACKWARD.
func WithDefaultCompatibility(level CompatibilityLevel) MemoryOption {
	return func(m *MemoryClient) {
		m.defaultLevel = level
	}
}

// NewMemoryClient returns an empty in-memory registry.
func NewMemoryClient(opts ...MemoryOption) *MemoryClient {
	m := &MemoryClient{
		nextID:       1,
		ids:          make(map[string]int),
		schemas:      make(map[int]Schema),
		subjects:     make(map[string][]RegisteredSchema),
		levels:       make(map[string]CompatibilityLevel),
		defaultLevel: CompatibilityBackward,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	versions := m.subjects[subject]
	if len(versions) == 0 {
		return nil, notFound(codeSubjectNotFound, "Subject '%s' not found.", subject)
	}
	latest := versions[len(versions)-1]
	return &latest, nil
}

// Register stores schema under subject. Content already registered under
// subject returns the existing version.
func (m *MemoryClient) Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schema.SchemaType = schema.SchemaType.Normalize()
	if err := ValidateSchema(schema); err != nil {
		return nil, invalidSchema(err)
	}
	key := contentKey(schema)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	versions := m.subjects[subject]
	if id, ok := m.ids[key]; ok {
		for _, v := range versions {
			if v.ID == id {
				existing := v
				return &existing, nil
			}
		}
	}

	ok, reason, err := CheckCompatibility(m.levelLocked(subject), schema, schemaTexts(versions))
	if err != nil {
		return nil, invalidSchema(err)
	}
	if !ok {
		return nil, incompatible("Schema being registered is incompatible with an earlier schema for subject %q: %s", subject, reason)
	}

	id, known := m.ids[key]
	if !known {
		id = m.nextID
		m.nextID++
		m.ids[key] = id
		m.schemas[id] = schema
	}

	registered := RegisteredSchema{
		Subject:    subject,
		ID:         id,
		Version:    len(versions) + 1,
		Schema:     schema.Schema,
		SchemaType: schema.SchemaType,
		References: schema.References,
	}
	m.subjects[subject] = append(versions, registered)
	return &registered, nil
}

func (m *MemoryClient) TestCompatibility(ctx context.Context, subject string, schema Schema) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	schema.SchemaType = schema.SchemaType.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}

	versions := m.subjects[subject]
	if len(versions) == 0 {
		return false, notFound(codeSubjectNotFound, "Subject '%s' not found.", subject)
	}
	ok, _, err := CheckCompatibility(m.levelLocked(subject), schema, schemaTexts(versions))
	if err != nil {
		return false, invalidSchema(err)
	}
	return ok, nil
}

func (m *MemoryClient) SetCompatibilityLevel(ctx context.Context, subject string, level CompatibilityLevel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parsed, err := ParseCompatibilityLevel(string(level))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.levels[subject] = parsed
	return nil
}

func (m *MemoryClient) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	schema, ok := m.schemas[id]
	if !ok {
		return nil, notFound(codeSchemaNotFound, "Schema %d not found", id)
	}
	return &schema, nil
}

// Close makes every later call fail with ErrClosed.
func (m *MemoryClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Versions returns every version registered under subject, oldest first.
func (m *MemoryClient) Versions(subject string) []RegisteredSchema {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RegisteredSchema(nil), m.subjects[subject]...)
}

// Compatibility returns the level in force for subject.
func (m *MemoryClient) Compatibility(subject string) CompatibilityLevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levelLocked(subject)
}

func (m *MemoryClient) levelLocked(subject string) CompatibilityLevel {
	if level, ok := m.levels[subject]; ok {
		return level
	}
	return m.defaultLevel
}

func schemaTexts(versions []RegisteredSchema) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.Schema
	}
	return out
}
