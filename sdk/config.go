package sdk

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/birbparty/artifacts-go/internal/telemetry"
)

// Config holds the configuration for an Artifacts client. Token and
// Character are required; everything else has sensible defaults.
//
// Configuration uses the fluent builder pattern:
//
//	config := sdk.DefaultConfig().
//	    WithToken(token).
//	    WithCharacter("Birbalot").
//	    WithTimeout(15 * time.Second).
//	    WithRetries(5)
//
//	client, err := sdk.NewClient(config)
type Config struct {
	// BaseURL is the base URL of the game API.
	// Default: "https://api.artifactsmmo.com"
	BaseURL string `env:"ARTIFACTS_BASE_URL"`

	// Token is the bearer token for the account. Required.
	Token string `env:"ARTIFACTS_TOKEN"`

	// Character is the name of the character the session acts as. Required.
	Character string `env:"ARTIFACTS_CHARACTER"`

	// CachePath is the SQLite file backing the versioned reference-data
	// cache. Default: "artifacts-cache.db" in the working directory.
	CachePath string `env:"ARTIFACTS_CACHE_PATH"`

	// Timeout is the per-request HTTP timeout, the only hard bound on a
	// network call. Default: 10s.
	Timeout time.Duration `env:"ARTIFACTS_TIMEOUT"`

	// PageSize is the page size for catalog sweeps, capped by the server
	// at 100. Default: 100.
	PageSize int `env:"ARTIFACTS_PAGE_SIZE"`

	// RetryConfig configures the default retry strategy for transient
	// failures.
	RetryConfig RetryConfig

	// TransportConfig configures HTTP connection pooling.
	TransportConfig TransportConfig

	// Headers are extra headers sent with every request.
	Headers map[string]string

	// RetryStrategy overrides the strategy built from RetryConfig.
	RetryStrategy RetryStrategy

	// Observer receives operational events. Defaults to NoopObserver.
	Observer Observer

	// Logger receives diagnostic logs. Defaults to the shared telemetry
	// logger.
	Logger *logrus.Logger
}

// RetryConfig holds retry settings for transient failures. Game-rule errors
// are never retried regardless of these values.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts. Default: 3.
	MaxRetries int `env:"ARTIFACTS_MAX_RETRIES"`

	// InitialInterval is the delay before the first retry. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the delay between retries. Default: 5s.
	MaxInterval time.Duration

	// Multiplier is the exponential backoff multiplier. Default: 2.0.
	Multiplier float64
}

// TransportConfig holds HTTP connection-pool settings.
type TransportConfig struct {
	// MaxIdleConns is the idle connection limit. Default: 10.
	MaxIdleConns int

	// IdleConnTimeout closes idle connections after this long. Default: 90s.
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config with defaults suitable for the public
// game API. Token and Character must still be set.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://api.artifactsmmo.com",
		CachePath: "artifacts-cache.db",
		Timeout:   10 * time.Second,
		PageSize:  maxPageSize,
		RetryConfig: RetryConfig{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2.0,
		},
		TransportConfig: TransportConfig{
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
		Headers:  make(map[string]string),
		Observer: &NoopObserver{},
	}
}

// ConfigFromEnv builds a Config from ARTIFACTS_* environment variables on
// top of the defaults.
//
// Example:
//
//	// ARTIFACTS_TOKEN=... ARTIFACTS_CHARACTER=Birbalot ./bot
//	config, err := sdk.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := sdk.NewClient(config)
func ConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// WithBaseURL sets the API base URL.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithToken sets the bearer token.
func (c *Config) WithToken(token string) *Config {
	c.Token = token
	return c
}

// WithCharacter sets the character the session acts as.
func (c *Config) WithCharacter(name string) *Config {
	c.Character = name
	return c
}

// WithCachePath sets the SQLite file for the reference-data cache.
func (c *Config) WithCachePath(path string) *Config {
	c.CachePath = path
	return c
}

// WithTimeout sets the per-request HTTP timeout.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetries sets the maximum number of retry attempts for transient
// failures. Zero disables retries.
func (c *Config) WithRetries(maxRetries int) *Config {
	c.RetryConfig.MaxRetries = maxRetries
	return c
}

// WithRetryStrategy sets a custom retry strategy, overriding RetryConfig.
func (c *Config) WithRetryStrategy(strategy RetryStrategy) *Config {
	c.RetryStrategy = strategy
	return c
}

// WithHeader adds a header sent with every request.
func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// WithObserver sets the observer for operational events.
func (c *Config) WithObserver(observer Observer) *Config {
	c.Observer = observer
	return c
}

// WithLogger sets the diagnostic logger.
func (c *Config) WithLogger(logger *logrus.Logger) *Config {
	c.Logger = logger
	return c
}

// Validate checks required fields and fills in defaults for missing ones.
// Called automatically by NewClient.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}
	if c.Character == "" {
		return fmt.Errorf("%w: character name is required", ErrInvalidConfig)
	}
	if c.CachePath == "" {
		c.CachePath = "artifacts-cache.db"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		c.PageSize = maxPageSize
	}
	if c.RetryConfig.MaxRetries < 0 {
		c.RetryConfig.MaxRetries = 0
	}
	if c.RetryConfig.InitialInterval <= 0 {
		c.RetryConfig.InitialInterval = 100 * time.Millisecond
	}
	if c.RetryConfig.MaxInterval <= 0 {
		c.RetryConfig.MaxInterval = 5 * time.Second
	}
	if c.RetryConfig.Multiplier <= 1 {
		c.RetryConfig.Multiplier = 2.0
	}
	if c.Observer == nil {
		c.Observer = &NoopObserver{}
	}
	if c.Logger == nil {
		c.Logger = telemetry.L()
	}
	return nil
}

// retryStrategy returns the configured strategy, building the default
// exponential backoff from RetryConfig when none is set.
func (c *Config) retryStrategy() RetryStrategy {
	if c.RetryStrategy != nil {
		return c.RetryStrategy
	}
	if c.RetryConfig.MaxRetries == 0 {
		return &NoRetryStrategy{}
	}
	return &ExponentialBackoffStrategy{
		InitialInterval: c.RetryConfig.InitialInterval,
		MaxInterval:     c.RetryConfig.MaxInterval,
		Multiplier:      c.RetryConfig.Multiplier,
		Jitter:          0.3,
		MaxAttempts:     c.RetryConfig.MaxRetries,
	}
}
