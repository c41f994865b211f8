package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schemasync/v1/kafka"
)

func newConsumeCommand(s *state) *cobra.Command {
	var (
		maxMessages int
		group string
	)

	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Decode messages from the topic and print them as JSON",
		Long: `Consume reconciles the subject, then decodes messages with the schema each one
was written with, resolved to the reconciled schema, and prints one JSON
object per line. Without --max it runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kcfg := s.cfg.Kafka
			kcfg.IsConsumer = true
			if group != "" {
				kcfg.GroupID = group
			}

			var client *kafka.Client
			app := fx.New(kafkaOptions(s.cfg, kcfg, &client)...)
			return runApp(cmd.Context(), app, func() error {
				out := cmd.OutOrStdout()
				enc := json.NewEncoder(out)

				seen := 0
				err := client.Consume(cmd.Context(), func(ctx context.Context, msg kafka.Message) error {
					if err := enc.Encode(map[string]any{
						"key":       msg.Key,
						"partition": msg.Partition,
						"offset":    msg.Offset,
						"value":     msg.Value,
					}); err != nil {
						return fmt.Errorf("print message: %w", err)
					}
					seen++
					if maxMessages > 0 && seen >= maxMessages {
						return kafka.ErrStop
					}
					return nil
				})
				if err != nil && cmd.Context().Err() != nil {
					return nil
				}
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&maxMessages, "max", "m", 0, "stop after this many messages (0 runs until interrupted)")
	cmd.Flags().StringVarP(&group, "group", "g", "", "consumer group id (overrides kafka.group_id)")
	return cmd
}
