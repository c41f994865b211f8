package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates topic when it does not exist. An existing topic is left
// untouched, whatever its partition count.
func (c *Client) EnsureTopic(ctx context.Context, topic TopicConfig) (err error) {
	if topic.Topic == "" {
		topic.Topic = c.cfg.Topic
	}
	topic = topic.withDefaults()

	start := time.Now()
	defer func() {
		c.observe("create_topic", topic.Topic, start, 0, err)
	}()

	entries := make([]kafka.ConfigEntry, 0, len(topic.ConfigEntries))
	for name, value := range topic.ConfigEntries {
		entries = append(entries, kafka.ConfigEntry{ConfigName: name, ConfigValue: value})
	}

	admin := &kafka.Client{
		Addr:      kafka.TCP(c.cfg.Brokers...),
		Timeout:   c.cfg.WriteTimeout,
		Transport: c.transport,
	}
	resp, err := admin.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{
			Topic:             topic.Topic,
			NumPartitions:     topic.NumPartitions,
			ReplicationFactor: topic.ReplicationFactor,
			ConfigEntries:     entries,
		}},
	})
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic.Topic, err)
	}

	if terr := resp.Errors[topic.Topic]; terr != nil {
		if errors.Is(terr, kafka.TopicAlreadyExists) {
			if c.logger != nil {
				c.logger.Debug("topic already exists", nil, map[string]interface{}{"topic": topic.Topic})
			}
			return nil
		}
		return fmt.Errorf("create topic %s: %w", topic.Topic, terr)
	}
	return nil
}
