package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
)

var version = "dev"

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}

type state struct {
	viper   *viper.Viper
	cfgFile string
	cfg     Config
}

// NewRootCommand builds the schemasync command tree. Every call gets its
// own viper instance.
func NewRootCommand() *cobra.Command {
	s := &state{viper: viper.New()}

	root := &cobra.Command{
		Use:   "schemasync",
		Short: "Keep schema registry subjects in sync with local schema files",
		Long: `schemasync reconciles the newest local schema document of a topic against a
Confluent compatible schema registry, registering new versions only when the
registry accepts them as compatible, and hands out a codec for the result.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(s.viper, s.cfgFile)
			if err != nil {
				return err
			}
			s.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&s.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warning, error")
	root.PersistentFlags().String("registry-url", "", "schema registry URL")
	root.PersistentFlags().String("topic", "", "topic whose schema is reconciled")
	_ = s.viper.BindPFlag("logger.level", root.PersistentFlags().Lookup("log-level"))
	_ = s.viper.BindPFlag("registry.url", root.PersistentFlags().Lookup("registry-url"))
	_ = s.viper.BindPFlag("reconciler.topic", root.PersistentFlags().Lookup("topic"))

	root.AddCommand(
		newReconcileCommand(s),
		newDiffCommand(s),
		newProduceCommand(s),
		newConsumeCommand(s),
		newTopicCommand(s),
		newConfigCommand(s),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// runApp starts app, calls fn and stops app. Start errors carry the
// reconciliation failure.
func runApp(ctx context.Context, app *fx.App, fn func() error) (err error) {
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := app.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	return fn()
}

func printResult(w io.Writer, r *reconciler.Result) {
	states := make([]string, len(r.Transitions))
	for i, st := range r.Transitions {
		states[i] = string(st)
	}
	fmt.Fprintf(w, "subject:  %s\n", r.Subject)
	fmt.Fprintf(w, "path:     %s\n", strings.Join(states, " -> "))
	fmt.Fprintf(w, "schema:   id %d, version %d (%s)\n", r.Schema.ID, r.Schema.Version, r.Schema.SchemaType.Normalize())
	fmt.Fprintf(w, "writes:   %d\n", r.Writes)
	if r.Document != nil {
		fmt.Fprintf(w, "document: %s\n", r.Document.Name)
	}
}
