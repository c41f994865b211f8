package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfigMaxRetries(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Nil(t, cfg.Registry.MaxRetries, "unset leaves the default to the registry package")
	assert.Equal(t, registry.DefaultMaxRetries, cfg.Registry.RetryPolicy().MaxRetries)

	path := filepath.Join(t.TempDir(), "schemasync.yaml")
	writeFile(t, path, `
registry:
  max_retries: 0
`)
	cfg, err = LoadConfig(viper.New(), path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Registry.MaxRetries)
	assert.Equal(t, 0, cfg.Registry.RetryPolicy().MaxRetries, "explicit zero disables retries")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "schemas/customer_events", cfg.Schemas.Dir)
	assert.Equal(t, "customer_events", cfg.Reconciler.Topic)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "customer_events", cfg.Kafka.Topic, "kafka topic follows the reconciled topic")
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemasync.yaml")
	writeFile(t, path, `
registry:
  url: http://registry:8081
  timeout: 3s
  password: secret
reconciler:
  topic: users
  target_compatibility: BACKWARD_TRANSITIVE
kafka:
  topic: users-events
  group_id: analytics
schemas:
  source: s3
  object:
    bucket: schemas
`)
	t.Setenv("SCHEMASYNC_REGISTRY_URL", "http://override:8081")
	t.Setenv("SCHEMASYNC_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("SCHEMASYNC_SCHEMAS_OBJECT_PREFIX", "users")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:8081", cfg.Registry.URL, "env wins over file")
	assert.Equal(t, 3*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, "secret", cfg.Registry.Password)
	assert.Equal(t, "users", cfg.Reconciler.Topic)
	assert.Equal(t, registry.CompatibilityBackwardTransitive, cfg.Reconciler.TargetCompatibilityLevel)
	assert.Equal(t, "users-events", cfg.Kafka.Topic)
	assert.Equal(t, "analytics", cfg.Kafka.GroupID)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "s3", cfg.Schemas.Source)
	assert.Equal(t, "schemas", cfg.Schemas.Object.Bucket)
	assert.Equal(t, "users", cfg.Schemas.Object.Prefix)
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	writeFile(t, path, "registry: [unterminated")

	_, err := LoadConfig(viper.New(), path)
	require.Error(t, err)
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(Config{}), "")
	assert.Contains(t, keys, "registry.url")
	assert.Contains(t, keys, "schemas.object.secret_access_key")
	assert.Contains(t, keys, "kafka.sasl.mechanism")
	assert.NotContains(t, keys, "kafka.sasl")
}

func TestRedacted(t *testing.T) {
	cfg := Config{}
	cfg.Registry.Password = "p"
	cfg.Kafka.SASL.Password = "k"
	cfg.Registry.URL = "http://registry"

	out := redacted(cfg)
	assert.Equal(t, "****", out.Registry.Password)
	assert.Equal(t, "****", out.Kafka.SASL.Password)
	assert.Equal(t, "", out.Registry.Token, "empty values stay empty")
	assert.Equal(t, "http://registry", out.Registry.URL)
	assert.Equal(t, "p", cfg.Registry.Password, "input is not modified")
}
