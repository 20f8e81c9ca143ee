package config

import (
	"os"
	"strings"
	"time"

	"devicerelay/internal/domain/constants"

	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultMaxRequestBodySize = "100KB"
	defaultMetricsPath        = "/metrics"

	defaultHeartbeatInterval = 30 * time.Second
	defaultHeartbeatTimeout  = 60 * time.Second
	defaultTokenTTL          = time.Minute
	defaultTokenCapacity     = 64
	defaultSendQueueSize     = 64
	defaultWriteTimeout      = 10 * time.Second
	defaultMaxMessageSize    = 1 << 20
	defaultRecorderWorkers   = 2
	defaultRecorderQueueSize = 256
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	// Relay configuration for the per-user device relay
	Relay *RelayConfig `json:"relay" yaml:"relay"`

	// PubSub configuration for transfer event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Metrics configuration for the Prometheus endpoint
	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// RelayConfig defines the behaviour of the device relay coordinators
type RelayConfig struct {
	// How often the heartbeat sweep runs while sockets are open
	HeartbeatInterval time.Duration `json:"heartbeatInterval" yaml:"heartbeatInterval"`

	// A socket without a ping for longer than this is closed by the next sweep
	HeartbeatTimeout time.Duration `json:"heartbeatTimeout" yaml:"heartbeatTimeout"`

	// Lifetime of an unconsumed handshake token
	TokenTTL time.Duration `json:"tokenTTL" yaml:"tokenTTL"`

	// Maximum number of outstanding handshake tokens per user
	TokenCapacity int `json:"tokenCapacity" yaml:"tokenCapacity"`

	// Outbound frame queue per socket
	SendQueueSize int `json:"sendQueueSize" yaml:"sendQueueSize"`

	// Deadline for a single socket write
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"`

	// Largest inbound frame accepted, in bytes
	MaxMessageSize int64 `json:"maxMessageSize" yaml:"maxMessageSize"`

	// Coordinators without events for this long are hibernated (0 disables)
	IdleTimeout time.Duration `json:"idleTimeout" yaml:"idleTimeout"`

	// Transfer recorder worker pool
	RecorderWorkers   int `json:"recorderWorkers" yaml:"recorderWorkers"`
	RecorderQueueSize int `json:"recorderQueueSize" yaml:"recorderQueueSize"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// MetricsConfig defines the Prometheus scrape endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// New loads config.yaml from the first matching search directory, applies
// environment overrides and fills relay defaults.
func New() (*Config, error) {
	k, err := load("config.yaml", ".", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg := new(Config)
	if err := unmarshal(k, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = replicasFromEnv(os.LookupEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.Relay == nil {
		c.Relay = &RelayConfig{}
	}
	c.Relay.ApplyDefaults()
	if c.Metrics != nil && strings.TrimSpace(c.Metrics.Path) == "" {
		c.Metrics.Path = defaultMetricsPath
	}
}

// Validate rejects configurations the relay cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecretKey.Access) == "" {
		return errors.New("secretKey.access is required")
	}
	if c.Relay != nil && c.Relay.HeartbeatTimeout < c.Relay.HeartbeatInterval {
		return errors.Errorf("relay.heartbeatTimeout (%s) must not be shorter than relay.heartbeatInterval (%s)",
			c.Relay.HeartbeatTimeout, c.Relay.HeartbeatInterval)
	}
	if c.Relay != nil && c.Relay.IdleTimeout > 0 &&
		c.Relay.IdleTimeout <= c.Relay.HeartbeatTimeout+c.Relay.HeartbeatInterval {
		return errors.Errorf("relay.idleTimeout (%s) must exceed relay.heartbeatTimeout plus relay.heartbeatInterval (%s)",
			c.Relay.IdleTimeout, c.Relay.HeartbeatTimeout+c.Relay.HeartbeatInterval)
	}
	if c.Metrics != nil && c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.Errorf("metrics.path must start with '/': %q", c.Metrics.Path)
	}
	if c.PubSub == nil {
		return nil
	}

	switch c.PubSub.Provider {
	case "", constants.PubSubProviderLocal, constants.PubSubProviderGoogle:
		return nil
	default:
		return errors.Errorf("unknown pubsub.provider %q", c.PubSub.Provider)
	}
}

// ApplyDefaults fills zero values with the relay defaults.
func (c *RelayConfig) ApplyDefaults() {
	setDuration(&c.HeartbeatInterval, defaultHeartbeatInterval)
	setDuration(&c.HeartbeatTimeout, defaultHeartbeatTimeout)
	setDuration(&c.TokenTTL, defaultTokenTTL)
	setDuration(&c.WriteTimeout, defaultWriteTimeout)
	setInt(&c.TokenCapacity, defaultTokenCapacity)
	setInt(&c.SendQueueSize, defaultSendQueueSize)
	setInt(&c.RecorderWorkers, defaultRecorderWorkers)
	setInt(&c.RecorderQueueSize, defaultRecorderQueueSize)
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v <= 0 {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
