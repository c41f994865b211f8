package cli

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/schemasync/v1/kafka"
	"github.com/Aleph-Alpha/schemasync/v1/logger"
	"github.com/Aleph-Alpha/schemasync/v1/metrics"
	"github.com/Aleph-Alpha/schemasync/v1/reconciler"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/Aleph-Alpha/schemasync/v1/schemadoc"
	"github.com/Aleph-Alpha/schemasync/v1/tracer"
)

// EnvPrefix prefixes every environment override, e.g.
// SCHEMASYNC_REGISTRY_URL for registry.url.
const EnvPrefix = "SCHEMASYNC"

// Config is the file layout read by --config.
//
//	registry:
//	  url: http://localhost:8081
//	schemas:
//	  dir: schemas/customer_events
//	reconciler:
//	  topic: customer_events
//	kafka:
//	  brokers: [localhost:9092]
type Config struct {
	Logger     logger.Config     `yaml:"logger"`
	Registry   registry.Config   `yaml:"registry"`
	Schemas    schemadoc.Config  `yaml:"schemas"`
	Reconciler reconciler.Config `yaml:"reconciler"`
	Kafka      kafka.Config      `yaml:"kafka"`

	// Metrics are served only when metrics.address is set.
	Metrics metrics.Config `yaml:"metrics"`
	Tracer  tracer.Config  `yaml:"tracer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", logger.Info)
	v.SetDefault("schemas.dir", "schemas/customer_events")
	v.SetDefault("reconciler.topic", "customer_events")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("tracer.service_name", "schemasync")
}

// LoadConfig reads path (optional) and SCHEMASYNC_* environment variables
// into a Config. Environment variables win over the file.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range configKeys(reflect.TypeOf(Config{}), "") {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var missing viper.ConfigFileNotFoundError
			if !errors.As(err, &missing) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = cfg.Reconciler.Topic
	}
	return cfg, nil
}

// configKeys lists the dotted yaml keys of every leaf field of t.
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("yaml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		key := prefix + name
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Time{}) {
			keys = append(keys, configKeys(f.Type, key+".")...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// redacted returns cfg with credentials masked, for printing.
func redacted(cfg Config) Config {
	mask := func(s *string) {
		if *s != "" {
			*s = "****"
		}
	}
	mask(&cfg.Registry.Password)
	mask(&cfg.Registry.Token)
	mask(&cfg.Registry.DSN)
	mask(&cfg.Schemas.Object.SecretAccessKey)
	mask(&cfg.Kafka.SASL.Password)
	return cfg
}
