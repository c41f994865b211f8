package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Aleph-Alpha/schemasync/v1/codec"
	"github.com/Aleph-Alpha/schemasync/v1/observability"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// Logger is the subset of logger.LoggerClient used by the client.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Propagator moves trace context in and out of message headers.
// *tracer.Tracer satisfies it.
type Propagator interface {
	GetCarrier(ctx context.Context) map[string]string
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

// Message is a consumed and decoded record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       string
	Value     any
	Headers   map[string]string
	Time      time.Time
}

// Handler processes one message. Returning ErrStop commits the message and
// ends Consume; any other error ends Consume without committing.
type Handler func(ctx context.Context, msg Message) error

// Client is either a producer or a consumer for a single topic, chosen by
// Config.IsConsumer.
type Client struct {
	cfg       Config
	writer    *kafka.Writer
	reader    *kafka.Reader
	transport *kafka.Transport

	serializer   Serializer
	deserializer Deserializer
	observer     observability.Observer
	logger       Logger
	propagator   Propagator
}

// Option configures a Client.
type Option func(*Client)

// WithObserver reports publish, consume and topic operations to observer.
func WithObserver(observer observability.Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithLogger sets the logger used for client and kafka-go errors.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPropagator injects trace context into published headers and extracts
// it from consumed ones.
func WithPropagator(p Propagator) Option {
	return func(c *Client) {
		c.propagator = p
	}
}

// NewClient creates a producer or consumer. Brokers are not contacted until
// the first Publish, Consume or EnsureTopic.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	cfg = cfg.withDefaults()

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}

	compression, err := compressionOf(cfg.CompressionCodec)
	if err != nil {
		return nil, err
	}

	tlsConfig, mechanism, err := security(cfg)
	if err != nil {
		return nil, err
	}
	c.transport = &kafka.Transport{TLS: tlsConfig, SASL: mechanism}

	if cfg.IsConsumer {
		c.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.Topic,
			GroupID:     cfg.GroupID,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: cfg.StartOffset,
			ErrorLogger: c.errorLogger(),
			Dialer: &kafka.Dialer{
				Timeout:       10 * time.Second,
				DualStack:     true,
				TLS:           tlsConfig,
				SASLMechanism: mechanism,
			},
		})
		return c, nil
	}

	c.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  compression,
		ErrorLogger:  c.errorLogger(),
		Transport:    c.transport,
	}
	return c, nil
}

// SetSerializer sets the value serializer used by Publish.
func (c *Client) SetSerializer(s Serializer) {
	c.serializer = s
}

// SetDeserializer sets the value deserializer used by Consume.
func (c *Client) SetDeserializer(d Deserializer) {
	c.deserializer = d
}

// Topic returns the configured topic.
func (c *Client) Topic() string {
	return c.cfg.Topic
}

// Publish serializes record and writes it under key. Messages with the same
// key land on the same partition.
func (c *Client) Publish(ctx context.Context, key string, record any, headers map[string]string) (err error) {
	if c.writer == nil {
		return fmt.Errorf("publish: %w", ErrWrongRole)
	}
	if c.serializer == nil {
		return ErrNoSerializer
	}

	start := time.Now()
	var size int64
	defer func() {
		c.observe("publish", key, start, size, err)
	}()

	value, err := c.serializer.Serialize(record)
	if err != nil {
		return fmt.Errorf("serialize record: %w", err)
	}
	size = int64(len(value))

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: c.headers(ctx, headers),
	}
	if err = c.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Consume fetches, decodes and hands messages to handler until ctx ends,
// the handler fails or returns ErrStop. Offsets are committed after the
// handler succeeds when a GroupID is configured.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	if c.reader == nil {
		return fmt.Errorf("consume: %w", ErrWrongRole)
	}
	if c.deserializer == nil {
		return ErrNoDeserializer
	}

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		start := time.Now()
		headers := headerMap(m.Headers)
		msgCtx := ctx
		if c.propagator != nil {
			msgCtx = c.propagator.SetCarrierOnContext(ctx, headers)
		}

		value, err := c.deserializer.Deserialize(msgCtx, m.Value, codec.SerializationContext{
			Topic: m.Topic,
			Field: registry.RoleValue,
		})
		c.observe("consume", string(m.Key), start, int64(len(m.Value)), err)
		if err != nil {
			return fmt.Errorf("decode message at %s/%d@%d: %w", m.Topic, m.Partition, m.Offset, err)
		}

		herr := handler(msgCtx, Message{
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       string(m.Key),
			Value:     value,
			Headers:   headers,
			Time:      m.Time,
		})
		if herr != nil && !errors.Is(herr, ErrStop) {
			return herr
		}

		if c.cfg.GroupID != "" {
			if err := c.reader.CommitMessages(ctx, m); err != nil {
				return fmt.Errorf("commit offset: %w", err)
			}
		}
		if herr != nil {
			return nil
		}
	}
}

// Close flushes pending writes and releases connections.
func (c *Client) Close() error {
	if c.writer != nil {
		if err := c.writer.Close(); err != nil {
			return fmt.Errorf("close writer: %w", err)
		}
	}
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			return fmt.Errorf("close reader: %w", err)
		}
	}
	return nil
}

func (c *Client) headers(ctx context.Context, extra map[string]string) []kafka.Header {
	merged := make(map[string]string)
	if hs, ok := c.serializer.(headerSource); ok {
		for k, v := range hs.Headers() {
			merged[k] = v
		}
	}
	if c.propagator != nil {
		for k, v := range c.propagator.GetCarrier(ctx) {
			merged[k] = v
		}
	}
	for k, v := range extra {
		merged[k] = v
	}

	out := make([]kafka.Header, 0, len(merged))
	for k, v := range merged {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}

func headerMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func (c *Client) errorLogger() kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		if c.logger == nil {
			return
		}
		c.logger.Error("kafka internal error", nil, map[string]interface{}{
			"topic": c.cfg.Topic,
			"error": fmt.Sprintf(msg, args...),
		})
	}
}

func (c *Client) observe(operation, key string, start time.Time, size int64, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "kafka",
		Operation:   operation,
		Resource:    c.cfg.Topic,
		SubResource: key,
		Duration:    time.Since(start),
		Error:       err,
		Size:        size,
	})
}

func compressionOf(name string) (kafka.Compression, error) {
	switch name {
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	case "none":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported compression codec: %s", name)
	}
}
