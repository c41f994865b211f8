// Package kafka produces and consumes schema-framed records on a single
// topic with segmentio/kafka-go.
//
// Values pass through a Serializer on Publish and a Deserializer on Consume.
// CodecSerde plugs a reconciled codec.Codec into both slots, so every value
// on the wire starts with the Confluent header naming the registered schema
// id. CodecSerde also stamps each message with the subject, id and version
// it was written with:
//
//	schemasync-subject:        users-value
//	schemasync-schema-id:      7
//	schemasync-schema-version: 3
//
// Basic usage:
//
//	engine, _ := reconciler.NewEngine(cfg, store, registryClient)
//	if _, err := engine.Reconcile(ctx); err != nil {
//		return err
//	}
//	c, _ := engine.Codec()
//
//	producer, err := kafka.NewClient(kafka.Config{
//		Brokers: []string{"localhost:9092"},
//		Topic:   "customer_events",
//	})
//	if err != nil {
//		return err
//	}
//	defer producer.Close()
//
//	producer.SetSerializer(kafka.NewCodecSerde(c))
//	if err := producer.EnsureTopic(ctx, kafka.TopicConfig{}); err != nil {
//		return err
//	}
//	err = producer.Publish(ctx, "42", event, nil)
//
// Consuming:
//
//	consumer, _ := kafka.NewClient(kafka.Config{
//		Brokers:    []string{"localhost:9092"},
//		Topic:      "customer_events",
//		GroupID:    "analytics",
//		IsConsumer: true,
//	})
//	consumer.SetDeserializer(kafka.NewCodecSerde(c))
//	err = consumer.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
//		fmt.Println(msg.Key, msg.Value)
//		return nil
//	})
//
// Producer defaults are acks from all in-sync replicas, three attempts, a
// 5 ms batch timeout and snappy compression. EnsureTopic creates missing
// topics with three partitions and replication factor one.
//
// A Handler may return ErrStop to commit the current message and leave
// Consume cleanly. Offsets are only committed when a GroupID is set; without
// one the reader reads partition 0 from Config.StartOffset.
//
// With WithPropagator (satisfied by *tracer.Tracer) the trace context of the
// publishing call travels in message headers and is restored on the context
// handed to the Handler.
package kafka
