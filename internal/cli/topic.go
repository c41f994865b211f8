package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schemasync/v1/kafka"
)

func newTopicCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage the Kafka topic",
	}

	var (
		partitions  int
		replication int
		configs     map[string]string
	)
	create := &cobra.Command{
		Use:   "create [topic]",
		Short: "Create the topic when it does not exist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kcfg := s.cfg.Kafka
			if len(args) == 1 {
				kcfg.Topic = args[0]
			}

			client, err := kafka.NewClient(kcfg)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.EnsureTopic(cmd.Context(), kafka.TopicConfig{
				Topic:             kcfg.Topic,
				NumPartitions:     partitions,
				ReplicationFactor: replication,
				ConfigEntries:     configs,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "topic %s ready\n", kcfg.Topic)
			return nil
		},
	}
	create.Flags().IntVarP(&partitions, "partitions", "p", kafka.DefaultNumPartitions, "number of partitions")
	create.Flags().IntVarP(&replication, "replication-factor", "r", kafka.DefaultReplicationFactor, "replication factor")
	create.Flags().StringToStringVar(&configs, "config-entry", nil, "topic config entries, e.g. retention.ms=86400000")

	cmd.AddCommand(create)
	return cmd
}
