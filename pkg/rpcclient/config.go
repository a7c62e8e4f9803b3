package rpcclient

import (
	"fmt"
	"os"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/metrics"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Default configuration values, used whenever the corresponding Config field
// is left zero.
const (
	DefaultDialTimeout        = 4 * time.Second
	DefaultRequestTimeout     = 4 * time.Second
	DefaultPoolSize           = 8
	DefaultPoolWaitTimeout    = 5 * time.Second
	DefaultRateLimit          = 50 // requests per second
	DefaultRateBurst          = 100
	DefaultRateWaitTimeout    = 5 * time.Second
	DefaultBreakerThreshold   = 5
	DefaultBreakerCooldown    = time.Second
	DefaultBreakerMaxCooldown = 30 * time.Second
	DefaultRetryAttempts      = 3
	DefaultRetryBase          = 100 * time.Millisecond
	DefaultRetryCap           = 5 * time.Second
	DefaultCacheTTL           = 5 * time.Second
	DefaultCacheSize          = 1000
)

// Duration is a time.Duration that (un)marshals to YAML in the "150ms"/"4s"
// human form instead of nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config collects all tunables of the Client. The zero value is usable, any
// field left unset falls back to the documented default.
type Config struct {
	// Endpoint is the node's JSON-RPC URL.
	Endpoint string `yaml:"endpoint"`

	DialTimeout    Duration `yaml:"dial_timeout"`
	RequestTimeout Duration `yaml:"request_timeout"`
	// MaxConnsPerHost limits the transport's connections. No limit by default.
	MaxConnsPerHost int `yaml:"max_conns_per_host"`

	// PoolSize bounds the number of concurrently used connections.
	PoolSize        int      `yaml:"pool_size"`
	PoolWaitTimeout Duration `yaml:"pool_wait_timeout"`

	// RateLimit is the token refill rate in requests per second, RateBurst
	// the bucket capacity.
	RateLimit       float64  `yaml:"rate_limit"`
	RateBurst       int      `yaml:"rate_burst"`
	RateWaitTimeout Duration `yaml:"rate_wait_timeout"`

	// BreakerThreshold is the number of consecutive failures opening the
	// circuit. Cooldown doubles on every failed trial up to the maximum.
	BreakerThreshold   int      `yaml:"breaker_threshold"`
	BreakerCooldown    Duration `yaml:"breaker_cooldown"`
	BreakerMaxCooldown Duration `yaml:"breaker_max_cooldown"`

	// RetryAttempts bounds the total number of tries for retryable
	// failures, backoff grows from RetryBase up to RetryCap with jitter.
	RetryAttempts int      `yaml:"retry_attempts"`
	RetryBase     Duration `yaml:"retry_base"`
	RetryCap      Duration `yaml:"retry_cap"`

	// CacheTTL/CacheSize control the read cache for idempotent methods.
	CacheTTL  Duration `yaml:"cache_ttl"`
	CacheSize int      `yaml:"cache_size"`

	// Logger and Recorder are injected, not loaded. Defaults are a no-op
	// logger and a no-op metrics sink.
	Logger   *zap.Logger      `yaml:"-"`
	Recorder metrics.Recorder `yaml:"-"`
}

// ConfigFromYAML parses a Config from YAML data.
func ConfigFromYAML(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing client config: %w", err)
	}
	return cfg, nil
}

// ConfigFromFile reads and parses a Config from a YAML file.
func ConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ConfigFromYAML(data)
}

func (cfg *Config) applyDefaults() {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = Duration(DefaultDialTimeout)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.PoolWaitTimeout <= 0 {
		cfg.PoolWaitTimeout = Duration(DefaultPoolWaitTimeout)
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	if cfg.RateWaitTimeout <= 0 {
		cfg.RateWaitTimeout = Duration(DefaultRateWaitTimeout)
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = DefaultBreakerThreshold
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = Duration(DefaultBreakerCooldown)
	}
	if cfg.BreakerMaxCooldown <= 0 {
		cfg.BreakerMaxCooldown = Duration(DefaultBreakerMaxCooldown)
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = Duration(DefaultRetryBase)
	}
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = Duration(DefaultRetryCap)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = Duration(DefaultCacheTTL)
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NopRecorder{}
	}
}
