// Package ratelimit provides the client side token bucket and the gate that
// parks callers until the bucket admits them.
package ratelimit

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"apca/pkg/core"
)

// Bucket is a token bucket refilled lazily on every access. It holds at most
// capacity tokens and gains fillRate tokens per second. Take never blocks.
type Bucket struct {
	limiter  *rate.Limiter
	capacity int
	fillRate float64
	now      func() time.Time
	metrics  *Metrics
}

// BucketOption configures a Bucket.
type BucketOption func(*Bucket)

// WithClock replaces time.Now as the bucket's time source.
func WithClock(now func() time.Time) BucketOption {
	return func(b *Bucket) {
		b.now = now
	}
}

// NewBucket creates a full bucket. Both capacity and fillRate (tokens per second)
// must be positive.
func NewBucket(capacity int, fillRate float64, opts ...BucketOption) (*Bucket, error) {
	if capacity <= 0 || !(fillRate > 0) || math.IsInf(fillRate, 1) {
		return nil, fmt.Errorf("capacity[%d] fill rate[%g]: %w", capacity, fillRate, core.ErrInvalidTokenCount)
	}

	b := &Bucket{
		capacity: capacity,
		fillRate: fillRate,
		now:      time.Now,
		metrics:  &Metrics{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.limiter = rate.NewLimiter(rate.Limit(fillRate), capacity)
	// Zero-token take pins the refill clock to construction time.
	b.limiter.AllowN(b.now(), 0)

	return b, nil
}

// Take consumes n tokens if at least n are available after refilling and
// reports whether it did. On false the bucket is left unchanged.
func (b *Bucket) Take(n int) bool {
	b.metrics.totalTakes.Add(1)
	if n < 1 {
		b.metrics.deniedTakes.Add(1)
		return false
	}
	if !b.limiter.AllowN(b.now(), n) {
		b.metrics.deniedTakes.Add(1)
		return false
	}
	b.metrics.grantedTakes.Add(1)
	b.metrics.tokensTaken.Add(int64(n))
	return true
}

// Available returns the number of tokens the bucket holds right now.
func (b *Bucket) Available() float64 {
	return b.limiter.TokensAt(b.now())
}

// Capacity returns the maximum number of tokens.
func (b *Bucket) Capacity() int {
	return b.capacity
}

// FillRate returns the refill rate in tokens per second.
func (b *Bucket) FillRate() float64 {
	return b.fillRate
}

// Metrics returns a snapshot of the bucket statistics.
func (b *Bucket) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalTakes:      b.metrics.totalTakes.Load(),
		GrantedTakes:    b.metrics.grantedTakes.Load(),
		DeniedTakes:     b.metrics.deniedTakes.Load(),
		TokensTaken:     b.metrics.tokensTaken.Load(),
		Waits:           b.metrics.waits.Load(),
		WaitTime:        time.Duration(b.metrics.waitNanos.Load()),
		AvailableTokens: b.Available(),
	}
}
