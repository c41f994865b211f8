package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer defaults follow the customer events producer: acks from all
// in-sync replicas, three attempts, 5 ms linger and snappy compression.
const (
	DefaultMaxAttempts      = 3
	DefaultBatchTimeout     = 5 * time.Millisecond
	DefaultBatchSize        = 100
	DefaultWriteTimeout     = 10 * time.Second
	DefaultCompressionCodec = "snappy"

	DefaultMinBytes       = 1
	DefaultMaxBytes       = 10e6
	DefaultMaxWait        = 500 * time.Millisecond
	DefaultStartOffset    = kafka.FirstOffset

	DefaultNumPartitions     = 3
	DefaultReplicationFactor = 1
)

// Config holds the settings of a producer or consumer client.
type Config struct {
	// Brokers is the bootstrap broker list, e.g. ["localhost:9092"].
	Brokers []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`

	Topic string `yaml:"topic" envconfig:"KAFKA_TOPIC"`

	// GroupID enables consumer groups and offset commits for consumers.
	GroupID string `yaml:"group_id" envconfig:"KAFKA_GROUP_ID"`

	// IsConsumer selects the consumer role; the default is producer.
	IsConsumer bool `yaml:"is_consumer" envconfig:"KAFKA_IS_CONSUMER"`

	// RequiredAcks: -1 all replicas (default), 1 leader only. Zero means default.
	RequiredAcks int `yaml:"required_acks" envconfig:"KAFKA_REQUIRED_ACKS"`

	MaxAttempts  int           `yaml:"max_attempts" envconfig:"KAFKA_MAX_ATTEMPTS"`
	BatchSize    int           `yaml:"batch_size" envconfig:"KAFKA_BATCH_SIZE"`
	BatchTimeout time.Duration `yaml:"batch_timeout" envconfig:"KAFKA_BATCH_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"KAFKA_WRITE_TIMEOUT"`

	// CompressionCodec is one of gzip, snappy, lz4, zstd or none.
	CompressionCodec string `yaml:"compression_codec" envconfig:"KAFKA_COMPRESSION_CODEC"`

	MinBytes    int           `yaml:"min_bytes" envconfig:"KAFKA_MIN_BYTES"`
	MaxBytes    int           `yaml:"max_bytes" envconfig:"KAFKA_MAX_BYTES"`
	MaxWait     time.Duration `yaml:"max_wait" envconfig:"KAFKA_MAX_WAIT"`
	StartOffset int64         `yaml:"start_offset" envconfig:"KAFKA_START_OFFSET"`

	TLS  TLSConfig  `yaml:"tls"`
	SASL SASLConfig `yaml:"sasl"`
}

// TLSConfig contains TLS/SSL settings.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" envconfig:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"KAFKA_TLS_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"KAFKA_TLS_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"KAFKA_TLS_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

// SASLConfig contains SASL authentication settings.
type SASLConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"KAFKA_SASL_ENABLED"`

	// Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	Mechanism string `yaml:"mechanism" envconfig:"KAFKA_SASL_MECHANISM"`
	Username  string `yaml:"username" envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `yaml:"password" envconfig:"KAFKA_SASL_PASSWORD"`
}

// TopicConfig describes a topic for EnsureTopic.
type TopicConfig struct {
	Topic             string            `yaml:"topic"`
	NumPartitions     int               `yaml:"num_partitions"`
	ReplicationFactor int               `yaml:"replication_factor"`
	ConfigEntries     map[string]string `yaml:"config_entries"`
}

func (c Config) withDefaults() Config {
	if c.RequiredAcks == 0 {
		c.RequiredAcks = int(kafka.RequireAll)
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.CompressionCodec == "" {
		c.CompressionCodec = DefaultCompressionCodec
	}
	if c.MinBytes == 0 {
		c.MinBytes = DefaultMinBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.StartOffset == 0 {
		c.StartOffset = DefaultStartOffset
	}
	return c
}

func (t TopicConfig) withDefaults() TopicConfig {
	if t.NumPartitions == 0 {
		t.NumPartitions = DefaultNumPartitions
	}
	if t.ReplicationFactor == 0 {
		t.ReplicationFactor = DefaultReplicationFactor
	}
	return t
}
