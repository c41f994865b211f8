package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
)

func newReconcileCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Bring the registry subject in line with the newest local schema",
		Long: `Reconcile registers the newest local schema document when the subject is new
or differs from the latest registered version and the registry accepts it as
compatible. It prints the state path the run took and the schema it ended on.

Exits non-zero when the run ends in REJECTED or FAILED.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var engine *reconciler.Engine
			app := fx.New(reconcileOptions(s.cfg, &engine)...)
			return runApp(cmd.Context(), app, func() error {
				printResult(cmd.OutOrStdout(), engine.Result())
				return nil
			})
		},
	}
}
