package metrics

const (
	DefaultAddress     = ":9090"
	DefaultNamespace   = "schemasync"
	DefaultServiceName = "schemasync"
)

// Config defines the settings of the Prometheus metrics server.
type Config struct {
	// Address determines the network address where the Prometheus
	// metrics HTTP server listens.
	//
	// Example values:
	//   - ":9090"   → Listen on all interfaces, port 9090
	//   - "127.0.0.1:9100" → Listen only on localhost, port 9100
	//
	// Default: ":9090"
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors controls whether the built-in Go runtime
	// and process metrics are automatically registered.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every metric name.
	//
	// Default: "schemasync" → "schemasync_operations_total"
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is attached to all metrics as the constant label "service".
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	return c
}
