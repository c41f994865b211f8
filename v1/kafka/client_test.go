package kafka

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Aleph-Alpha/schemasync/v1/codec"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

const userSchema = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"id","type":"long"},{"name":"name","type":"string"}]}`

func newCodec(t *testing.T) *codec.Codec {
	t.Helper()
	client := registry.NewMemoryClient()
	rs, err := client.Register(context.Background(), "users-value", registry.Schema{Schema: userSchema})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	c, err := codec.NewFactory(codec.WithResolver(client)).Build(*rs)
	if err != nil {
		t.Fatalf("build codec: %v", err)
	}
	return c
}

type staticPropagator map[string]string

func (p staticPropagator) GetCarrier(context.Context) map[string]string {
	return p
}

func (p staticPropagator) SetCarrierOnContext(ctx context.Context, _ map[string]string) context.Context {
	return ctx
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	if cfg.RequiredAcks != int(kafka.RequireAll) {
		t.Errorf("RequiredAcks = %d", cfg.RequiredAcks)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", cfg.MaxAttempts)
	}
	if cfg.BatchTimeout != 5*time.Millisecond {
		t.Errorf("BatchTimeout = %s", cfg.BatchTimeout)
	}
	if cfg.CompressionCodec != "snappy" {
		t.Errorf("CompressionCodec = %q", cfg.CompressionCodec)
	}
	if cfg.StartOffset != kafka.FirstOffset {
		t.Errorf("StartOffset = %d", cfg.StartOffset)
	}

	topic := TopicConfig{Topic: "t"}.withDefaults()
	if topic.NumPartitions != 3 || topic.ReplicationFactor != 1 {
		t.Errorf("topic defaults = %+v", topic)
	}

	kept := Config{RequiredAcks: 1, CompressionCodec: "zstd"}.withDefaults()
	if kept.RequiredAcks != 1 || kept.CompressionCodec != "zstd" {
		t.Errorf("explicit values overwritten: %+v", kept)
	}
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no brokers", Config{Topic: "t"}, "broker"},
		{"no topic", Config{Brokers: []string{"localhost:9092"}}, "topic"},
		{"bad compression", Config{Brokers: []string{"localhost:9092"}, Topic: "t", CompressionCodec: "brotli"}, "compression"},
		{"bad sasl", Config{Brokers: []string{"localhost:9092"}, Topic: "t", SASL: SASLConfig{Enabled: true, Mechanism: "GSSAPI"}}, "SASL"},
		{"missing ca", Config{Brokers: []string{"localhost:9092"}, Topic: "t", TLS: TLSConfig{Enabled: true, CACertPath: "/nonexistent/ca.pem"}}, "CA cert"},
		{"cert without key", Config{Brokers: []string{"localhost:9092"}, Topic: "t", TLS: TLSConfig{Enabled: true, ClientCertPath: "/tmp/client.pem"}}, "together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("NewClient() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCompression(t *testing.T) {
	for name, want := range map[string]kafka.Compression{
		"gzip":   kafka.Gzip,
		"snappy": kafka.Snappy,
		"lz4":    kafka.Lz4,
		"zstd":   kafka.Zstd,
		"none":   0,
	} {
		got, err := compressionOf(name)
		if err != nil || got != want {
			t.Errorf("compressionOf(%q) = %v, %v", name, got, err)
		}
	}
}

func TestSASLMechanisms(t *testing.T) {
	for _, name := range []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"} {
		m, err := saslMechanismFrom(SASLConfig{Mechanism: name, Username: "u", Password: "p"})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m.Name() != name {
			t.Errorf("Name() = %q, want %q", m.Name(), name)
		}
	}
}

func TestRoleChecks(t *testing.T) {
	producer, err := NewClient(Config{Brokers: []string{"localhost:9092"}, Topic: "t"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer producer.Close()

	err = producer.Consume(context.Background(), func(context.Context, Message) error { return nil })
	if !errors.Is(err, ErrWrongRole) {
		t.Errorf("Consume on producer = %v", err)
	}
	if err := producer.Publish(context.Background(), "k", nil, nil); !errors.Is(err, ErrNoSerializer) {
		t.Errorf("Publish without serializer = %v", err)
	}

	consumer, err := NewClient(Config{Brokers: []string{"localhost:9092"}, Topic: "t", IsConsumer: true})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Publish(context.Background(), "k", nil, nil); !errors.Is(err, ErrWrongRole) {
		t.Errorf("Publish on consumer = %v", err)
	}
	err = consumer.Consume(context.Background(), func(context.Context, Message) error { return nil })
	if !errors.Is(err, ErrNoDeserializer) {
		t.Errorf("Consume without deserializer = %v", err)
	}
}

func TestCodecSerde(t *testing.T) {
	c := newCodec(t)
	serde := NewCodecSerde(c)

	data, err := serde.Serialize(map[string]any{"id": int64(7), "name": "ada"})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	id, _, err := codec.DecodeSchemaID(data)
	if err != nil || id != c.ID() {
		t.Fatalf("frame id = %d, %v", id, err)
	}

	value, err := serde.Deserialize(context.Background(), data, codec.SerializationContext{Topic: "users", Field: registry.RoleValue})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	record, ok := value.(map[string]any)
	if !ok || record["name"] != "ada" {
		t.Fatalf("Deserialize() = %#v", value)
	}

	headers := serde.Headers()
	if headers[HeaderSubject] != "users-value" || headers[HeaderSchemaVersion] != "1" {
		t.Errorf("Headers() = %v", headers)
	}
}

func TestHeadersMerge(t *testing.T) {
	c := &Client{
		serializer: NewCodecSerde(newCodec(t)),
		propagator: staticPropagator{"traceparent": "00-abc-def-01"},
	}

	got := headerMap(c.headers(context.Background(), map[string]string{
		"source":      "test",
		HeaderSubject: "overridden",
	}))

	if got["traceparent"] != "00-abc-def-01" {
		t.Errorf("trace header missing: %v", got)
	}
	if got["source"] != "test" {
		t.Errorf("extra header missing: %v", got)
	}
	if got[HeaderSubject] != "overridden" {
		t.Errorf("caller headers must win: %v", got)
	}
	if got[HeaderSchemaID] == "" {
		t.Errorf("schema id header missing: %v", got)
	}
}
