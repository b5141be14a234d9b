package core

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Base URLs of the brokerage API.
const (
	LiveURL       = "https://api.alpaca.markets"
	PaperURL      = "https://paper-api.alpaca.markets"
	MarketDataURL = "https://data.alpaca.markets"
)

// Default rate limit published by the provider: 200 requests per minute per account.
const (
	DefaultRateLimitRequests = 200
	DefaultRateLimitPeriod   = time.Minute
	DefaultPollInterval      = time.Second
)

// Credentials holds API authentication credentials.
// AccessToken takes precedence over the KeyID/SecretKey pair when both are set.
type Credentials struct {
	// KeyID is the public API key identifier.
	KeyID string `json:"key_id"`
	// SecretKey is the private API key paired with KeyID.
	SecretKey string `json:"secret_key"`
	// AccessToken is an OAuth bearer token.
	AccessToken string `json:"access_token,omitempty"`
}

// HasToken reports whether a bearer token is configured.
func (c *Credentials) HasToken() bool {
	return c != nil && c.AccessToken != ""
}

// HasKeyPair reports whether both halves of the key/secret pair are configured.
func (c *Credentials) HasKeyPair() bool {
	return c != nil && c.KeyID != "" && c.SecretKey != ""
}

// TokenBucketConfig sizes the client side token bucket.
type TokenBucketConfig struct {
	// Capacity is the maximum number of tokens the bucket holds.
	Capacity int `json:"capacity" validate:"min=1"`
	// FillRate is the number of tokens added per second.
	FillRate float64 `json:"fill_rate" validate:"gt=0"`
}

// Config contains all configuration options for a client.
type Config struct {
	Credentials *Credentials `json:"credentials,omitempty"`

	// Paper selects the paper trading endpoint when BaseURL is empty.
	Paper bool `json:"paper"`
	// BaseURL overrides the trading endpoint.
	BaseURL string `json:"base_url" validate:"omitempty,url"`
	// DataURL overrides the market data endpoint.
	DataURL string `json:"data_url" validate:"omitempty,url"`

	Timeout time.Duration `json:"timeout" validate:"min=1ms"`

	TokenBucket  TokenBucketConfig `json:"token_bucket"`
	PollInterval time.Duration     `json:"poll_interval" validate:"min=1ms"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with defaults: paper trading, 10s timeout,
// a bucket of 200 tokens refilled at 200/min and a 1s admission poll interval.
func DefaultConfig() *Config {
	return &Config{
		Paper:   true,
		Timeout: 10 * time.Second,

		TokenBucket: TokenBucketConfig{
			Capacity: DefaultRateLimitRequests,
			FillRate: float64(DefaultRateLimitRequests) / DefaultRateLimitPeriod.Seconds(),
		},
		PollInterval: DefaultPollInterval,

		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks field constraints. It does not check credentials; missing
// credentials are reported by the client constructor as ErrMissingCredentials.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// TradingURL returns the endpoint used for trading requests.
func (c *Config) TradingURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Paper {
		return PaperURL
	}
	return LiveURL
}

// MarketDataURL returns the endpoint used for market data requests.
func (c *Config) MarketDataURL() string {
	if c.DataURL != "" {
		return c.DataURL
	}
	return MarketDataURL
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithPaper enables or disables paper trading and returns the config for chaining.
func (c *Config) WithPaper(paper bool) *Config {
	c.Paper = paper
	return c
}

// WithBaseURL overrides the trading endpoint and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithDataURL overrides the market data endpoint and returns the config for chaining.
func (c *Config) WithDataURL(url string) *Config {
	c.DataURL = url
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sizes the token bucket as requests per period and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.TokenBucket.Capacity = requests
	if period > 0 {
		c.TokenBucket.FillRate = float64(requests) / period.Seconds()
	} else {
		c.TokenBucket.FillRate = 0
	}
	return c
}

// WithTokenBucket sets the bucket capacity and fill rate (tokens per second) and returns the config for chaining.
func (c *Config) WithTokenBucket(capacity int, fillRate float64) *Config {
	c.TokenBucket = TokenBucketConfig{Capacity: capacity, FillRate: fillRate}
	return c
}

// WithPollInterval sets how often waiting requests re-check the bucket and returns the config for chaining.
func (c *Config) WithPollInterval(interval time.Duration) *Config {
	c.PollInterval = interval
	return c
}
