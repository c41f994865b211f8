package schema_registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
)

// NewFromConfig builds the backend selected by cfg.Type and layers the
// decorators over it, innermost first: observation of raw calls, retries
// with per-call timeout, then the id cache.
func NewFromConfig(ctx context.Context, cfg Config, logger Logger, observer observability.Observer) (Client, error) {
	cfg = cfg.withDefaults()

	var base Client
	switch strings.ToLower(cfg.Type) {
	case TypeHTTP, "confluent", "csr":
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		base = c
	case "apicurio":
		cfg.ApicurioCompat = true
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		base = c
	case TypeMemory, "local":
		base = NewMemoryClient(WithDefaultCompatibility(cfg.DefaultCompatibility))
	case TypePostgres:
		c, err := NewPostgresClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		base = c
	default:
		return nil, fmt.Errorf("unsupported schema registry type %q", cfg.Type)
	}

	client := WithObserver(base, observer)
	client = WithRetry(client, cfg.RetryPolicy(), logger)
	if cfg.CacheTTL > 0 {
		client = WithCache(client, cfg.CacheTTL)
	}
	return client, nil
}
