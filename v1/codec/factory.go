package codec

import (
	"context"
	"fmt"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// SchemaResolver looks up writer schemas of frames produced under other ids.
// registry.Client satisfies it.
type SchemaResolver interface {
	GetSchemaByID(ctx context.Context, id int) (*registry.Schema, error)
}

// SubjectNameStrategy derives the subject expected for a topic and role.
type SubjectNameStrategy func(topic string, role registry.Role) string

// Factory builds codecs for registered schemas.
type Factory struct {
	binders  map[registry.SchemaType]Binder
	resolver SchemaResolver
	strategy SubjectNameStrategy
}

// Option configures a Factory.
type Option func(*Factory)

// WithBinder adds or replaces the binder for b.Format().
func WithBinder(b Binder) Option {
	return func(f *Factory) {
		f.binders[b.Format().Normalize()] = b
	}
}

// WithResolver lets codecs decode frames written under other schema ids.
func WithResolver(r SchemaResolver) Option {
	return func(f *Factory) {
		f.resolver = r
	}
}

// WithSubjectNameStrategy replaces registry.SubjectName, for subjects that
// do not follow the topic-role convention.
func WithSubjectNameStrategy(s SubjectNameStrategy) Option {
	return func(f *Factory) {
		f.strategy = s
	}
}

// FixedSubject is a strategy mapping every topic and role to subject.
func FixedSubject(subject string) SubjectNameStrategy {
	return func(string, registry.Role) string {
		return subject
	}
}

// NewFactory returns a factory with the AVRO and JSON binders.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		binders: map[registry.SchemaType]Binder{
			registry.SchemaTypeAvro: AvroBinder{},
			registry.SchemaTypeJSON: JSONBinder{},
		},
		strategy: registry.SubjectName,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build binds schema and returns its codec. A schema type without a binder
// is ErrUnsupportedFormat.
func (f *Factory) Build(schema registry.RegisteredSchema) (*Codec, error) {
	format := schema.SchemaType.Normalize()
	binder, ok := f.binders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	binding, err := binder.Bind(schema.Schema)
	if err != nil {
		return nil, fmt.Errorf("bind schema %d of %s: %w", schema.ID, schema.Subject, err)
	}

	return &Codec{
		schema:   schema,
		format:   format,
		binding:  binding,
		resolver: f.resolver,
		strategy: f.strategy,
		writers:  make(map[int]Binding),
	}, nil
}
