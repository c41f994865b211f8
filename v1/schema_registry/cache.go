package schema_registry

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type cachingClient struct {
	Client
	byID *gocache.Cache
}

// WithCache caches schemas by their global id, which registries never reuse.
// Results of LookupLatest and Register seed the cache so that decoding a
// payload written with the current schema needs no extra call.
func WithCache(next Client, ttl time.Duration) Client {
	return &cachingClient{
		Client: next,
		byID:   gocache.New(ttl, 2*ttl),
	}
}

func (c *cachingClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	registered, err := c.Client.LookupLatest(ctx, subject)
	if err == nil {
		c.remember(registered)
	}
	return registered, err
}

func (c *cachingClient) Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error) {
	registered, err := c.Client.Register(ctx, subject, schema)
	if err == nil {
		c.remember(registered)
	}
	return registered, err
}

func (c *cachingClient) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	key := strconv.Itoa(id)
	if cached, ok := c.byID.Get(key); ok {
		schema := cached.(Schema)
		return &schema, nil
	}

	schema, err := c.Client.GetSchemaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.byID.SetDefault(key, *schema)
	return schema, nil
}

func (c *cachingClient) Close() error {
	c.byID.Flush()
	return c.Client.Close()
}

func (c *cachingClient) remember(registered *RegisteredSchema) {
	if registered == nil || registered.ID == 0 {
		return
	}
	c.byID.SetDefault(strconv.Itoa(registered.ID), registered.AsSchema())
}
