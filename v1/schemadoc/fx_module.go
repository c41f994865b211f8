package schemadoc

import (
	"context"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
	"github.com/spf13/afero"
	"go.uber.org/fx"
)

// FXModule provides a Store built from a supplied Config.
//
//	app := fx.New(
//	    schemadoc.FXModule,
//	    fx.Supply(schemadoc.Config{Dir: "schemas/customer_events"}),
//	)
var FXModule = fx.Module("schemadoc",
	fx.Provide(NewStoreWithDI),
)

// StoreParams groups the dependencies of NewStoreWithDI. Fs replaces the OS
// filesystem for the dir source.
type StoreParams struct {
	fx.In

	Config   Config
	Fs       afero.Fs               `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewStoreWithDI builds the configured Store. Fs defaults to the OS
// filesystem.
func NewStoreWithDI(params StoreParams) (Store, error) {
	return NewFromConfig(context.Background(), params.Config, params.Fs, params.Observer)
}
