package ratelimit

import (
	"sync/atomic"
	"time"
)

// Metrics tracks statistics about bucket and gate usage.
type Metrics struct {
	totalTakes   atomic.Int64
	grantedTakes atomic.Int64
	deniedTakes  atomic.Int64
	tokensTaken  atomic.Int64
	waits        atomic.Int64
	waitNanos    atomic.Int64
}

// MetricsSnapshot is a point-in-time capture of rate limiter statistics.
type MetricsSnapshot struct {
	// TotalTakes is the number of Take calls.
	TotalTakes int64
	// GrantedTakes is the number of Take calls that consumed tokens.
	GrantedTakes int64
	// DeniedTakes is the number of Take calls that found too few tokens.
	DeniedTakes int64
	// TokensTaken is the total number of tokens consumed.
	TokensTaken int64
	// Waits is the number of callers that had to park in the gate.
	Waits int64
	// WaitTime is the total time callers spent parked.
	WaitTime time.Duration
	// AvailableTokens is the bucket level when the snapshot was taken.
	AvailableTokens float64
}
