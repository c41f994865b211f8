package schema_registry

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/logger"
	"github.com/Aleph-Alpha/schemasync/v1/observability"
)

// FXModule is an fx.Module that provides and configures the Schema Registry client.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    schema_registry.FXModule,
//	    fx.Supply(schema_registry.Config{
//	        URL:        "http://localhost:8081",
//	        Timeout:    5 * time.Second,
//	        MaxRetries: schema_registry.Retries(3),
//	    }),
//	)
var FXModule = fx.Module("schema_registry",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterSchemaRegistryLifecycle),
)

// SchemaRegistryParams groups the dependencies needed to create a Schema Registry client
type SchemaRegistryParams struct {
	fx.In

	Config   Config
	Logger   *logger.LoggerClient   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates the Client described by params.Config, with retries,
// caching and optional observation applied. See NewFromConfig.
func NewClientWithDI(params SchemaRegistryParams) (Client, error) {
	var log Logger
	if params.Logger != nil {
		log = params.Logger
	}
	return NewFromConfig(context.Background(), params.Config, log, params.Observer)
}

// SchemaRegistryLifecycleParams groups the dependencies needed for Schema Registry lifecycle management
type SchemaRegistryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    Client
	Config    Config
	Logger    *logger.LoggerClient `optional:"true"`
}

// RegisterSchemaRegistryLifecycle logs startup and closes the client on shutdown.
func RegisterSchemaRegistryLifecycle(params SchemaRegistryLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if params.Logger != nil {
				cfg := params.Config.withDefaults()
				params.Logger.Info("schema registry client initialized", nil, map[string]interface{}{
					"type":        cfg.Type,
					"url":         cfg.URL,
					"timeout":     cfg.Timeout.String(),
					"max_retries": *cfg.MaxRetries,
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if params.Logger != nil {
				params.Logger.Info("schema registry client shutdown", nil, nil)
			}
			return params.Client.Close()
		},
	})
}
