package schema_registry

import "time"

// Registry backends selectable through Config.Type.
const (
	TypeHTTP     = "http"
	TypeMemory   = "memory"
	TypePostgres = "postgres"
)

const (
	// DefaultTimeout bounds every single registry call.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt for
	// calls failing with ErrRegistryUnavailable.
	DefaultMaxRetries = 3

	DefaultInitialBackoff = 200 * time.Millisecond
	DefaultMaxBackoff     = 5 * time.Second

	// DefaultCacheTTL applies to schemas cached by id. Ids are immutable, the
	// TTL only bounds memory.
	DefaultCacheTTL = 30 * time.Minute

	apicurioCompatPath = "/apis/ccompat/v7"
	contentType        = "application/vnd.schemaregistry.v1+json"
)

// Config holds configuration for schema registry clients.
type Config struct {
	// Type selects the backend: "http" (default when URL is set), "memory"
	// or "postgres" (default when DSN is set).
	Type string `yaml:"type" envconfig:"SCHEMA_REGISTRY_TYPE"`

	// URL is the schema registry endpoint (e.g., "http://localhost:8081").
	URL string `yaml:"url" envconfig:"SCHEMA_REGISTRY_URL"`

	// Username for basic auth (optional)
	Username string `yaml:"username" envconfig:"SCHEMA_REGISTRY_USERNAME"`

	// Password for basic auth (optional)
	Password string `yaml:"password" envconfig:"SCHEMA_REGISTRY_PASSWORD"`

	// Token for bearer auth (optional). Takes precedence over basic auth.
	Token string `yaml:"token" envconfig:"SCHEMA_REGISTRY_TOKEN"`

	// ApicurioCompat appends the Apicurio ccompat API path to URL.
	ApicurioCompat bool `yaml:"apicurio_compat" envconfig:"SCHEMA_REGISTRY_APICURIO_COMPAT"`

	// DSN is the Postgres connection string for the postgres backend.
	DSN string `yaml:"dsn" envconfig:"SCHEMA_REGISTRY_DSN"`

	// Timeout for a single registry call.
	Timeout time.Duration `yaml:"timeout" envconfig:"SCHEMA_REGISTRY_TIMEOUT"`

	// MaxRetries bounds retries of transient failures. Nil means
	// DefaultMaxRetries; zero or negative disables retries.
	MaxRetries *int `yaml:"max_retries" envconfig:"SCHEMA_REGISTRY_MAX_RETRIES"`

	InitialBackoff time.Duration `yaml:"initial_backoff" envconfig:"SCHEMA_REGISTRY_INITIAL_BACKOFF"`
	MaxBackoff     time.Duration `yaml:"max_backoff" envconfig:"SCHEMA_REGISTRY_MAX_BACKOFF"`

	// CacheTTL for schemas cached by id. Zero uses DefaultCacheTTL, negative disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl" envconfig:"SCHEMA_REGISTRY_CACHE_TTL"`

	// DefaultCompatibility is the level the memory and postgres backends
	// apply to subjects without an explicit level. Empty means BACKWARD.
	DefaultCompatibility CompatibilityLevel `yaml:"default_compatibility" envconfig:"SCHEMA_REGISTRY_DEFAULT_COMPATIBILITY"`
}

func (c Config) withDefaults() Config {
	if c.Type == "" {
		switch {
		case c.URL != "":
			c.Type = TypeHTTP
		case c.DSN != "":
			c.Type = TypePostgres
		default:
			c.Type = TypeMemory
		}
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == nil {
		c.MaxRetries = Retries(DefaultMaxRetries)
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.DefaultCompatibility == "" {
		c.DefaultCompatibility = CompatibilityBackward
	}
	return c
}

// Retries returns n as a Config.MaxRetries value.
func Retries(n int) *int {
	return &n
}

// RetryPolicy returns the retry settings carried by the config.
func (c Config) RetryPolicy() RetryPolicy {
	c = c.withDefaults()
	return RetryPolicy{
		Timeout:         c.Timeout,
		MaxRetries:      *c.MaxRetries,
		InitialInterval: c.InitialBackoff,
		MaxInterval:     c.MaxBackoff,
	}
}
