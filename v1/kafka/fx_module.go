package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/logger"
	"github.com/Aleph-Alpha/schemasync/v1/observability"
	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
	"github.com/Aleph-Alpha/schemasync/v1/tracer"
)

// FXModule provides a Client whose values are encoded or decoded with the
// codec of the reconciled subject. It must be combined with
// reconciler.FXModule so the codec exists before the client starts.
var FXModule = fx.Module("kafka",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterKafkaLifecycle),
)

// ClientParams groups the dependencies of NewClientWithDI.
type ClientParams struct {
	fx.In

	Config   Config
	Logger   *logger.LoggerClient   `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
}

// NewClientWithDI builds a Client from fx-provided dependencies. A Tracer,
// when present, propagates trace context through message headers.
func NewClientWithDI(params ClientParams) (*Client, error) {
	var opts []Option
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	if params.Observer != nil {
		opts = append(opts, WithObserver(params.Observer))
	}
	if params.Tracer != nil {
		opts = append(opts, WithPropagator(params.Tracer))
	}
	return NewClient(params.Config, opts...)
}

// RegisterKafkaLifecycle attaches the reconciled codec on start and closes
// the client on stop. fx runs start hooks in registration order, so the
// reconciler hook has already succeeded when this one runs.
func RegisterKafkaLifecycle(lc fx.Lifecycle, client *Client, engine *reconciler.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c, err := engine.Codec()
			if err != nil {
				return err
			}
			serde := NewCodecSerde(c)
			client.SetSerializer(serde)
			client.SetDeserializer(serde)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
