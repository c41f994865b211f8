package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
	"github.com/Aleph-Alpha/schemasync/v1/schemadiff"
)

func newDiffCommand(s *state) *cobra.Command {
	var unified bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how the local schema differs from the registered one",
		Long: `Diff compares the newest local schema document with the latest version
registered under the subject. Field order is ignored. Nothing is written.

Exits with status 0 whether or not differences are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var engine *reconciler.Engine
			app := fx.New(inspectOptions(s.cfg, &engine)...)
			return runApp(cmd.Context(), app, func() error {
				doc, remote, report, err := engine.Diff(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "subject:  %s\n", engine.Subject())
				fmt.Fprintf(out, "document: %s (version %d)\n", doc.Name, doc.Version)
				if remote == nil {
					fmt.Fprintln(out, "remote:   none")
				} else {
					fmt.Fprintf(out, "remote:   id %d, version %d\n", remote.ID, remote.Version)
				}

				if !report.HasChanges() {
					fmt.Fprintln(out, "no changes")
					return nil
				}
				fmt.Fprintln(out, report.String())

				if unified && remote != nil {
					theirs, err := schemadiff.Parse([]byte(remote.Schema))
					if err != nil {
						return fmt.Errorf("parse remote schema: %w", err)
					}
					fmt.Fprintln(out, schemadiff.Render(theirs, doc.Value))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "also print a line diff of the normalized schemas")
	return cmd
}
