// Package dispatch runs every outbound call through the client's token bucket
// before handing it to the transport, and normalizes what comes back.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"apca/internal/auth"
	"apca/internal/ratelimit"
	"apca/internal/transport"
	"apca/pkg/core"
)

const contentTypeJSON = "application/json"

// Doer performs one HTTP round trip.
type Doer interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// Dispatcher owns one token bucket and admits one call per token. Its fields
// are not modified after construction.
type Dispatcher struct {
	baseURL *url.URL
	gate    *ratelimit.Gate
	doer    Doer
	signer  *auth.Signer
	logger  zerolog.Logger
	metrics *Metrics
	clock   func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for admission waits and failed requests.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics records request outcomes and admission waits into m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock sets the time source of the token bucket.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.clock = now
	}
}

// New creates a dispatcher for cfg.TradingURL with a bucket sized from
// cfg.TokenBucket.
func New(cfg *core.Config, doer Doer, signer *auth.Signer, opts ...Option) (*Dispatcher, error) {
	base, err := url.Parse(cfg.TradingURL())
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	d := &Dispatcher{
		baseURL: base,
		doer:    doer,
		signer:  signer,
		logger:  zerolog.Nop(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	bucket, err := ratelimit.NewBucket(cfg.TokenBucket.Capacity, cfg.TokenBucket.FillRate, ratelimit.WithClock(d.clock))
	if err != nil {
		return nil, fmt.Errorf("create token bucket: %w", err)
	}
	d.gate = ratelimit.NewGate(bucket, cfg.PollInterval)
	d.metrics.setAvailable(bucket.Available())

	return d, nil
}

// Send waits for admission, performs req and returns the body of a 2xx
// response. Non-2xx responses come back as *core.APIError carrying the body
// verbatim; failures to reach the server as *core.TransportError. Nothing is
// retried.
func (d *Dispatcher) Send(ctx context.Context, req *core.Request) ([]byte, error) {
	waited, err := d.gate.Wait(ctx)
	d.metrics.observeWait(waited)
	d.metrics.setAvailable(d.gate.Bucket().Available())
	if err != nil {
		return nil, err
	}
	if waited > 0 {
		d.logger.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Dur("waited", waited).
			Msg("admitted after wait")
	}

	target, err := d.ResolveURL(req)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"Content-Type": contentTypeJSON}
	for k, v := range d.signer.Headers() {
		headers[k] = v
	}

	resp, err := d.doer.Do(ctx, &transport.Request{
		Method:  req.Method,
		URL:     target,
		Headers: headers,
		Query:   EncodeQuery(req.Query),
		Body:    req.Body,
	})
	if err != nil {
		d.metrics.observeRequest(req.Method, "error")
		d.logger.Warn().Err(err).
			Str("method", req.Method).
			Str("url", target).
			Stringer("type", core.TypeOf(err)).
			Msg("request failed")
		return nil, err
	}
	d.metrics.observeRequest(req.Method, strconv.Itoa(resp.StatusCode))

	if !resp.IsSuccess() {
		apiErr := core.NewAPIError(req.Method, target, resp.StatusCode, string(resp.Body)).
			WithCode(core.ParseErrorCode(resp.Body))
		d.logger.Warn().
			Str("method", req.Method).
			Str("url", target).
			Int("status", resp.StatusCode).
			Stringer("type", apiErr.Type).
			Str("code", apiErr.Code).
			Msg("request failed")
		return nil, apiErr
	}

	return resp.Body, nil
}

// ResolveURL resolves the request path against its own base URL, falling back
// to the dispatcher's. Absolute paths replace the base path; relative ones
// are resolved against it.
func (d *Dispatcher) ResolveURL(req *core.Request) (string, error) {
	base := d.baseURL
	if req.BaseURL != "" {
		override, err := url.Parse(req.BaseURL)
		if err != nil {
			return "", fmt.Errorf("parse base url %q: %w", req.BaseURL, err)
		}
		base = override
	}

	ref, err := url.Parse(req.Path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", req.Path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Stats returns the bucket statistics.
func (d *Dispatcher) Stats() ratelimit.MetricsSnapshot {
	return d.gate.Bucket().Metrics()
}

// Close fails all parked and future calls with core.ErrClientClosed.
func (d *Dispatcher) Close() {
	d.gate.Close()
}

// Execute sends req and decodes a successful body into T. An empty or
// undecodable body yields the zero T without error.
func Execute[T any](ctx context.Context, d *Dispatcher, req *core.Request) (T, error) {
	var out T

	body, err := d.Send(ctx, req)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}

	if err := sonic.Unmarshal(body, &out); err != nil {
		d.logger.Debug().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("undecodable response body")
		var empty T
		return empty, nil
	}
	return out, nil
}
