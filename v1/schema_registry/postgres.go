package schema_registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClient is a self-hosted registry stored in Postgres. It follows the
// same rules as MemoryClient and is safe to share between processes: version
// allocation for a subject is serialized by a transaction scoped advisory lock.
type PostgresClient struct {
	pool         *pgxpool.Pool
	defaultLevel CompatibilityLevel
}

// NewPostgresClient connects to cfg.DSN and applies pending migrations.
func NewPostgresClient(ctx context.Context, cfg Config) (*PostgresClient, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("schema registry DSN is required for the postgres backend")
	}
	cfg = cfg.withDefaults()

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres registry: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresClient{pool: pool, defaultLevel: cfg.DefaultCompatibility}, nil
}

func (p *PostgresClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	registered, err := scanRegistered(p.pool.QueryRow(ctx, `SELECT v.version, s.id, s.schema_type, s.schema, s.refs
		FROM schemasync_subject_versions v
		JOIN schemasync_schemas s ON s.id = v.schema_id
		WHERE v.subject = $1
		ORDER BY v.version DESC
		LIMIT 1`, subject))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(codeSubjectNotFound, "Subject '%s' not found.", subject)
	}
	if err != nil {
		return nil, unavailable("lookup latest", err)
	}
	registered.Subject = subject
	return registered, nil
}

func (p *PostgresClient) Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error) {
	schema.SchemaType = schema.SchemaType.Normalize()
	if err := ValidateSchema(schema); err != nil {
		return nil, invalidSchema(err)
	}
	key := contentKey(schema)
	refs, err := json.Marshal(schema.References)
	if err != nil {
		return nil, fmt.Errorf("marshal references: %w", err)
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, unavailable("begin register", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, subject); err != nil {
		return nil, unavailable("lock subject", err)
	}

	var id, version int
	err = tx.QueryRow(ctx, `SELECT s.id, v.version
		FROM schemasync_subject_versions v
		JOIN schemasync_schemas s ON s.id = v.schema_id
		WHERE v.subject = $1 AND s.content_key = $2`, subject, key).Scan(&id, &version)
	switch {
	case err == nil:
		if err := tx.Commit(ctx); err != nil {
			return nil, unavailable("commit register", err)
		}
		return &RegisteredSchema{Subject: subject, ID: id, Version: version, Schema: schema.Schema, SchemaType: schema.SchemaType, References: schema.References}, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, unavailable("find existing version", err)
	}

	history, err := subjectHistory(ctx, tx, subject)
	if err != nil {
		return nil, err
	}
	level, err := subjectLevel(ctx, tx, subject, p.defaultLevel)
	if err != nil {
		return nil, err
	}
	ok, reason, err := CheckCompatibility(level, schema, history)
	if err != nil {
		return nil, invalidSchema(err)
	}
	if !ok {
		return nil, incompatible("Schema being registered is incompatible with an earlier schema for subject %q: %s", subject, reason)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO schemasync_schemas (schema_type, content_key, schema, refs)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_key) DO UPDATE SET content_key = EXCLUDED.content_key
		RETURNING id`, string(schema.SchemaType), key, schema.Schema, string(refs)).Scan(&id); err != nil {
		return nil, unavailable("insert schema", err)
	}

	version = len(history) + 1
	if _, err := tx.Exec(ctx, `INSERT INTO schemasync_subject_versions (subject, version, schema_id) VALUES ($1, $2, $3)`,
		subject, version, id); err != nil {
		return nil, unavailable("insert version", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, unavailable("commit register", err)
	}

	return &RegisteredSchema{
		Subject:    subject,
		ID:         id,
		Version:    version,
		Schema:     schema.Schema,
		SchemaType: schema.SchemaType,
		References: schema.References,
	}, nil
}

func (p *PostgresClient) TestCompatibility(ctx context.Context, subject string, schema Schema) (bool, error) {
	schema.SchemaType = schema.SchemaType.Normalize()
	history, err := subjectHistory(ctx, p.pool, subject)
	if err != nil {
		return false, err
	}
	if len(history) == 0 {
		return false, notFound(codeSubjectNotFound, "Subject '%s' not found.", subject)
	}
	level, err := subjectLevel(ctx, p.pool, subject, p.defaultLevel)
	if err != nil {
		return false, err
	}
	ok, _, err := CheckCompatibility(level, schema, history)
	if err != nil {
		return false, invalidSchema(err)
	}
	return ok, nil
}

func (p *PostgresClient) SetCompatibilityLevel(ctx context.Context, subject string, level CompatibilityLevel) error {
	parsed, err := ParseCompatibilityLevel(string(level))
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `INSERT INTO schemasync_subject_config (subject, compatibility)
		VALUES ($1, $2)
		ON CONFLICT (subject) DO UPDATE SET compatibility = EXCLUDED.compatibility, updated_at = now()`,
		subject, string(parsed)); err != nil {
		return unavailable("set compatibility", err)
	}
	return nil
}

func (p *PostgresClient) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	var schemaType, text, refs string
	err := p.pool.QueryRow(ctx, `SELECT schema_type, schema, refs FROM schemasync_schemas WHERE id = $1`, id).
		Scan(&schemaType, &text, &refs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(codeSchemaNotFound, "Schema %d not found", id)
	}
	if err != nil {
		return nil, unavailable("get schema by id", err)
	}
	schema := &Schema{Schema: text, SchemaType: SchemaType(schemaType)}
	if err := json.Unmarshal([]byte(refs), &schema.References); err != nil {
		return nil, fmt.Errorf("decode references: %w", err)
	}
	return schema, nil
}

func (p *PostgresClient) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func subjectHistory(ctx context.Context, q querier, subject string) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT s.schema
		FROM schemasync_subject_versions v
		JOIN schemasync_schemas s ON s.id = v.schema_id
		WHERE v.subject = $1
		ORDER BY v.version`, subject)
	if err != nil {
		return nil, unavailable("read subject history", err)
	}
	history, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, unavailable("scan subject history", err)
	}
	return history, nil
}

func subjectLevel(ctx context.Context, q querier, subject string, fallback CompatibilityLevel) (CompatibilityLevel, error) {
	var level string
	err := q.QueryRow(ctx, `SELECT compatibility FROM schemasync_subject_config WHERE subject = $1`, subject).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", unavailable("read compatibility", err)
	}
	return CompatibilityLevel(level), nil
}

func scanRegistered(row pgx.Row) (*RegisteredSchema, error) {
	var registered RegisteredSchema
	var schemaType, refs string
	if err := row.Scan(&registered.Version, &registered.ID, &schemaType, &registered.Schema, &refs); err != nil {
		return nil, err
	}
	registered.SchemaType = SchemaType(schemaType)
	if err := json.Unmarshal([]byte(refs), &registered.References); err != nil {
		return nil, fmt.Errorf("decode references: %w", err)
	}
	return &registered, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRegistryUnavailable, op, err)
}
