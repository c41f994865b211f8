package cli

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/schemasync/v1/kafka"
	"github.com/Aleph-Alpha/schemasync/v1/logger"
	"github.com/Aleph-Alpha/schemasync/v1/metrics"
	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/Aleph-Alpha/schemasync/v1/schemadoc"
	"github.com/Aleph-Alpha/schemasync/v1/tracer"
)

// baseOptions wires everything up to, but excluding, the reconciler.
func baseOptions(cfg Config) []fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg.Logger, cfg.Tracer, cfg.Registry, cfg.Schemas, cfg.Reconciler),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			if cfg.Logger.Level != logger.Debug {
				return fxevent.NopLogger
			}
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
		logger.FXModule,
		tracer.FXModule,
		registry.FXModule,
		schemadoc.FXModule,
	}
	if cfg.Metrics.Address != "" {
		opts = append(opts, fx.Supply(cfg.Metrics), metrics.FXModule)
	}
	return opts
}

// reconcileOptions reconciles on start; Start fails when reconciliation does.
func reconcileOptions(cfg Config, populate ...interface{}) []fx.Option {
	opts := append(baseOptions(cfg), reconciler.FXModule)
	if len(populate) > 0 {
		opts = append(opts, fx.Populate(populate...))
	}
	return opts
}

// kafkaOptions adds a Kafka client bound to the reconciled codec.
func kafkaOptions(cfg Config, kcfg kafka.Config, populate ...interface{}) []fx.Option {
	opts := append(baseOptions(cfg), reconciler.FXModule, fx.Supply(kcfg), kafka.FXModule)
	if len(populate) > 0 {
		opts = append(opts, fx.Populate(populate...))
	}
	return opts
}

// inspectOptions provides the engine without reconciling.
func inspectOptions(cfg Config, populate ...interface{}) []fx.Option {
	return append(baseOptions(cfg),
		fx.Provide(reconciler.NewEngineWithDI),
		fx.Populate(populate...),
	)
}
