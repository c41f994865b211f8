package reconciler

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/logger"
	"github.com/Aleph-Alpha/schemasync/v1/observability"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/Aleph-Alpha/schemasync/v1/schemadoc"
)

// FXModule provides the Engine and reconciles on start. A failed
// reconciliation fails application start.
//
//	app := fx.New(
//	    logger.FXModule,
//	    schema_registry.FXModule,
//	    schemadoc.FXModule,
//	    reconciler.FXModule,
//	    fx.Supply(reconcilerConfig, registryConfig, schemaConfig, loggerConfig),
//	)
var FXModule = fx.Module("reconciler",
	fx.Provide(NewEngineWithDI),
	fx.Invoke(RegisterReconcilerLifecycle),
)

// EngineParams groups the dependencies of NewEngineWithDI.
type EngineParams struct {
	fx.In

	Config   Config
	Store    schemadoc.Store
	Client   registry.Client
	Logger   *logger.LoggerClient   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewEngineWithDI builds an Engine from fx-provided dependencies.
// Logger and Observer are optional.
func NewEngineWithDI(params EngineParams) (*Engine, error) {
	var opts []Option
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	if params.Observer != nil {
		opts = append(opts, WithObserver(params.Observer))
	}
	return NewEngine(params.Config, params.Store, params.Client, opts...)
}

// RegisterReconcilerLifecycle runs the first reconciliation on start.
func RegisterReconcilerLifecycle(lc fx.Lifecycle, engine *Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := engine.Reconcile(ctx)
			return err
		},
	})
}
