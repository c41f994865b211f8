package schema_registry

import "context"

// Client is the set of registry operations the reconciler and the codec need.
// Implementations: the HTTP client for Confluent compatible registries,
// MemoryClient and PostgresClient. Decorators add retries, caching and
// observation on top of any of them.
//
//go:generate mockgen -source=interface.go -destination=mock_client.go -package=schema_registry
type Client interface {
	// LookupLatest returns the newest version registered under subject.
	// It fails with ErrNotFound when the subject has no versions.
	LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error)

	// Register stores schema under subject. Registering content that is
	// already present returns the existing version. It fails with
	// ErrCompatibilityRejected when the subject's level forbids the change.
	Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error)

	// TestCompatibility checks schema against the subject's latest version
	// using the subject's level. It never changes registry state.
	TestCompatibility(ctx context.Context, subject string, schema Schema) (bool, error)

	// SetCompatibilityLevel sets the level enforced for subject.
	SetCompatibilityLevel(ctx context.Context, subject string, level CompatibilityLevel) error

	// GetSchemaByID returns the schema with the given global id.
	GetSchemaByID(ctx context.Context, id int) (*Schema, error)

	Close() error
}
