// Package schema_registry provides clients for versioned schema registries.
//
// The Client interface covers what schema reconciliation and payload decoding
// need from a registry:
//
//   - LookupLatest(ctx, subject): newest version, or ErrNotFound
//   - Register(ctx, subject, schema): idempotent on identical content
//   - TestCompatibility(ctx, subject, schema): read-only check against the latest version
//   - SetCompatibilityLevel(ctx, subject, level)
//   - GetSchemaByID(ctx, id)
//
// Three backends implement it:
//
//   - HTTPClient speaks the Confluent Schema Registry REST API (and Apicurio's
//     ccompat API).
//   - MemoryClient keeps everything in process, with real Avro
//     compatibility checks. Handy for tests and local runs.
//   - PostgresClient stores subjects, versions and levels in Postgres.
//
// Decorators add the cross-cutting behavior:
//
//	client, err := schema_registry.NewFromConfig(ctx, schema_registry.Config{
//	    URL:        "http://localhost:8081",
//	    Timeout:    5 * time.Second,
//	    MaxRetries: schema_registry.Retries(3),
//	}, log, observer)
//
// builds HTTPClient -> WithObserver -> WithRetry -> WithCache. WithRetry runs
// each attempt under its own timeout and retries only ErrRegistryUnavailable,
// with bounded exponential backoff.
//
// Error handling:
//
// Registry error responses come back as *APIError, which unwraps to one of
// the sentinel errors (ErrNotFound, ErrCompatibilityRejected, ErrInvalidSchema,
// ErrUnauthorized, ErrRegistryUnavailable):
//
//	if schema_registry.IsNotFoundError(err) {
//	    // first registration
//	}
//
// Subjects follow the topic name strategy: SubjectName("customer_events",
// RoleValue) is "customer_events-value".
package schema_registry
