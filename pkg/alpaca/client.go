package alpaca

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"apca/internal/auth"
	"apca/internal/dispatch"
	"apca/internal/ratelimit"
	"apca/internal/transport"
	"apca/pkg/core"
)

// MetricsNamespace prefixes the Prometheus collectors registered by
// WithMetricsRegisterer.
const MetricsNamespace = "apca"

// UserAgent is sent with every request.
const UserAgent = "apca-go"

// RateLimitStats is a snapshot of the client's token bucket.
type RateLimitStats = ratelimit.MetricsSnapshot

// Client is safe for concurrent use. All calls share one token bucket.
type Client struct {
	config     *core.Config
	signer     *auth.Signer
	transport  *transport.Client
	dispatcher *dispatch.Dispatcher
	metrics    *dispatch.Metrics
	registerer prometheus.Registerer
	logger     zerolog.Logger
	validate   *validator.Validate

	mu     sync.Mutex
	closed bool
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger       zerolog.Logger
	Registerer   prometheus.Registerer
	RoundTripper http.RoundTripper
	Clock        func() time.Time
}

// WithLogger returns an option that sets the logger. The level from
// Config.LogLevel is applied on top of it.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetricsRegisterer returns an option that registers request and rate limit
// collectors with reg. They are unregistered on Close.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registerer = reg
	}
}

// WithRoundTripper returns an option that replaces the HTTP transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *Options) {
		o.RoundTripper = rt
	}
}

// WithClock returns an option that sets the time source of the token bucket.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// New creates a client. A nil config means core.DefaultConfig. Credentials
// missing from config are read from APCA_KEY_ID, APCA_KEY_SECRET and
// APCA_ACCESS_TOKEN; if there are still none New fails with
// core.ErrMissingCredentials before any connection is set up.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	cfg := *config
	if config.Credentials != nil {
		creds := *config.Credentials
		cfg.Credentials = &creds
	}
	cfg.FillCredentialsFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &core.ConfigError{Err: fmt.Errorf("validate config: %w", err)}
	}

	signer, err := auth.New(cfg.Credentials)
	if err != nil {
		return nil, &core.ConfigError{Err: err}
	}

	options := &Options{
		Logger: zerolog.Nop(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, &core.ConfigError{Err: fmt.Errorf("parse log level: %w", err)}
		}
		logger = logger.Level(level)
	}
	logger = logger.With().Str("component", "alpaca").Logger()

	tc, err := transport.NewClient(&transport.Config{
		Timeout: cfg.Timeout,
		Headers: map[string]string{"User-Agent": UserAgent},
	},
		transport.WithLogger(logger),
		transport.WithRoundTripper(options.RoundTripper),
	)
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	var metrics *dispatch.Metrics
	if options.Registerer != nil {
		metrics = dispatch.NewMetrics(MetricsNamespace)
		if err := metrics.Register(options.Registerer); err != nil {
			_ = tc.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	d, err := dispatch.New(&cfg, tc, signer,
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(metrics),
		dispatch.WithClock(options.Clock),
	)
	if err != nil {
		_ = tc.Close()
		if metrics != nil {
			metrics.Unregister(options.Registerer)
		}
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}

	logger.Debug().
		Str("trading_url", cfg.TradingURL()).
		Str("data_url", cfg.MarketDataURL()).
		Str("auth", signer.Scheme().String()).
		Int("bucket_capacity", cfg.TokenBucket.Capacity).
		Float64("bucket_fill_rate", cfg.TokenBucket.FillRate).
		Msg("client created")

	return &Client{
		config:     &cfg,
		signer:     signer,
		transport:  tc,
		dispatcher: d,
		metrics:    metrics,
		registerer: options.Registerer,
		logger:     logger,
		validate:   validator.New(),
	}, nil
}

// Paper reports whether the client trades against the paper endpoint.
func (c *Client) Paper() bool {
	return c.config.BaseURL == "" && c.config.Paper
}

// TradingURL returns the endpoint used for trading requests.
func (c *Client) TradingURL() string {
	return c.config.TradingURL()
}

// MarketDataURL returns the endpoint used for market data requests.
func (c *Client) MarketDataURL() string {
	return c.config.MarketDataURL()
}

// SetCredentials replaces the credentials used by subsequent calls, e.g. after
// an OAuth token refresh.
func (c *Client) SetCredentials(creds *core.Credentials) error {
	return c.signer.Update(creds)
}

// RateLimitStats returns a snapshot of the token bucket.
func (c *Client) RateLimitStats() RateLimitStats {
	return c.dispatcher.Stats()
}

// Close releases the transport. Waiting and subsequent calls fail with
// core.ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.dispatcher.Close()
	if c.metrics != nil {
		c.metrics.Unregister(c.registerer)
	}
	return c.transport.Close()
}

func (c *Client) marketData(req *core.Request) *core.Request {
	return req.SetBaseURL(c.config.MarketDataURL())
}
