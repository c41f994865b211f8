package reconciler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/Aleph-Alpha/schemasync/v1/schemadoc"
)

const (
	userV1 = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"id","type":"long"},{"name":"name","type":"string"}]}`

	// userV1Reordered is userV1 with keys and fields in another order.
	userV1Reordered = `{
  "fields": [
    {"type": "string", "name": "name"},
    {"name": "id", "type": "long"}
  ],
  "namespace": "test",
  "name": "User",
  "type": "record"
}`

	// userV2 adds a field with a default, compatible under FULL.
	userV2 = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"id","type":"long"},{"name":"name","type":"string"},{"name":"age","type":"int","default":0}]}`

	// userBroken changes the type of name, incompatible in both directions.
	userBroken = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"id","type":"long"},{"name":"name","type":"int"}]}`

	topic   = "users"
	subject = "users-value"
)

// countingClient counts calls per operation.
type countingClient struct {
	registry.Client

	lookups   atomic.Int64
	registers atomic.Int64
	tests     atomic.Int64
	levels    atomic.Int64

	// onLookup runs after every LookupLatest.
	onLookup func()
}

func newCountingClient(next registry.Client) *countingClient {
	return &countingClient{Client: next}
}

func (c *countingClient) LookupLatest(ctx context.Context, subject string) (*registry.RegisteredSchema, error) {
	c.lookups.Add(1)
	rs, err := c.Client.LookupLatest(ctx, subject)
	if c.onLookup != nil {
		c.onLookup()
	}
	return rs, err
}

func (c *countingClient) Register(ctx context.Context, subject string, schema registry.Schema) (*registry.RegisteredSchema, error) {
	c.registers.Add(1)
	return c.Client.Register(ctx, subject, schema)
}

func (c *countingClient) TestCompatibility(ctx context.Context, subject string, schema registry.Schema) (bool, error) {
	c.tests.Add(1)
	return c.Client.TestCompatibility(ctx, subject, schema)
}

func (c *countingClient) SetCompatibilityLevel(ctx context.Context, subject string, level registry.CompatibilityLevel) error {
	c.levels.Add(1)
	return c.Client.SetCompatibilityLevel(ctx, subject, level)
}

func (c *countingClient) writes() int64 {
	return c.registers.Load() + c.levels.Load()
}

// dirStore returns a store holding one document per entry of files.
func dirStore(t *testing.T, files map[string]string) schemadoc.Store {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fsys, "schemas/"+name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return schemadoc.NewDirStore(fsys, "schemas", "")
}

// docStore serves a fixed document.
type docStore struct {
	doc *schemadoc.Document
}

func (s docStore) CurrentAuthoritative(context.Context) (*schemadoc.Document, error) {
	return s.doc, nil
}

func (s docStore) List(context.Context) ([]*schemadoc.Document, error) {
	return []*schemadoc.Document{s.doc}, nil
}

func newEngine(t *testing.T, store schemadoc.Store, client registry.Client, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Topic: topic}, store, client, opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func seed(t *testing.T, client registry.Client, schema string) *registry.RegisteredSchema {
	t.Helper()
	rs, err := client.Register(context.Background(), subject, registry.Schema{Schema: schema})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return rs
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}
