package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/eventgen"
	"github.com/Aleph-Alpha/schemasync/v1/kafka"
	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
)

func newProduceCommand(s *state) *cobra.Command {
	var (
		count       int
		seed        int64
		createTopic bool
	)

	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Reconcile, then publish generated customer events",
		Long: `Produce reconciles the subject and publishes synthetic customer events encoded
with the reconciled schema. Each event is keyed by its event id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}

			kcfg := s.cfg.Kafka
			kcfg.IsConsumer = false

			var (
				engine *reconciler.Engine
				client *kafka.Client
			)
			app := fx.New(kafkaOptions(s.cfg, kcfg, &engine, &client)...)
			return runApp(cmd.Context(), app, func() error {
				ctx := cmd.Context()
				if createTopic {
					if err := client.EnsureTopic(ctx, kafka.TopicConfig{}); err != nil {
						return err
					}
				}

				var opts []eventgen.Option
				if cmd.Flags().Changed("seed") {
					opts = append(opts, eventgen.WithSeed(seed))
				}
				gen := eventgen.New(opts...)

				for i := 0; i < count; i++ {
					event := gen.Next()
					if err := client.Publish(ctx, event.EventID, event, nil); err != nil {
						return fmt.Errorf("publish event %d of %d: %w", i+1, count, err)
					}
				}

				r := engine.Result()
				fmt.Fprintf(cmd.OutOrStdout(), "published %d events to %s with schema id %d (version %d)\n",
					count, client.Topic(), r.Schema.ID, r.Schema.Version)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of events to publish")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible events")
	cmd.Flags().BoolVar(&createTopic, "create-topic", false, "create the topic first when missing")
	return cmd
}
