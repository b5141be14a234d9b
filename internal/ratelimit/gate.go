package ratelimit

import (
	"context"
	"sync"
	"time"

	"apca/pkg/core"
)

// Gate admits callers one token at a time in arrival order. A caller that
// finds the bucket empty, or finds others already queued, joins the queue.
// Every tick hands the tokens refilled since the previous tick to the head of
// the queue, so a queued caller is admitted at the first tick after enough
// tokens exist for it and everyone ahead of it.
//
// A single ticker goroutine per gate runs only while the queue is non-empty.
type Gate struct {
	bucket   *Bucket
	interval time.Duration

	mu      sync.Mutex
	queue   []*waiter
	ticking bool

	done      chan struct{}
	closeOnce sync.Once
}

type waiter struct {
	ready   chan struct{}
	granted bool
}

// NewGate creates a gate over bucket that re-checks queued callers every interval.
func NewGate(bucket *Bucket, interval time.Duration) *Gate {
	if interval <= 0 {
		interval = core.DefaultPollInterval
	}
	return &Gate{
		bucket:   bucket,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Bucket returns the bucket the gate draws from.
func (g *Gate) Bucket() *Bucket {
	return g.bucket
}

// Wait blocks until one token has been taken from the bucket on the caller's
// behalf, ctx is done or the gate is closed. It returns how long the caller
// was queued. A caller that leaves without being admitted consumes nothing.
func (g *Gate) Wait(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	select {
	case <-g.done:
		return 0, core.ErrClientClosed
	default:
	}

	g.mu.Lock()
	if len(g.queue) == 0 && g.bucket.Take(1) {
		g.mu.Unlock()
		return 0, nil
	}
	w := &waiter{ready: make(chan struct{})}
	g.queue = append(g.queue, w)
	if !g.ticking {
		g.ticking = true
		go g.tick()
	}
	g.mu.Unlock()

	start := time.Now()
	defer g.record(start)

	var err error
	select {
	case <-w.ready:
		return time.Since(start), nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-g.done:
		err = core.ErrClientClosed
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Granted between the wake-up and taking the lock: the token is already spent.
	if w.granted {
		return time.Since(start), nil
	}
	g.remove(w)
	return time.Since(start), err
}

// Waiting returns the number of callers currently queued.
func (g *Gate) Waiting() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

// Close releases every queued caller with core.ErrClientClosed and stops the
// ticker. Subsequent Wait calls fail immediately.
func (g *Gate) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
	})
}

func (g *Gate) record(start time.Time) {
	g.bucket.metrics.waits.Add(1)
	g.bucket.metrics.waitNanos.Add(int64(time.Since(start)))
}

// admit must be called with g.mu held.
func (g *Gate) admit() {
	for len(g.queue) > 0 && g.bucket.Take(1) {
		w := g.queue[0]
		g.queue[0] = nil
		g.queue = g.queue[1:]
		w.granted = true
		close(w.ready)
	}
}

// remove must be called with g.mu held.
func (g *Gate) remove(w *waiter) {
	for i, q := range g.queue {
		if q == w {
			g.queue = append(g.queue[:i], g.queue[i+1:]...)
			return
		}
	}
}

func (g *Gate) tick() {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.mu.Lock()
			g.admit()
			if len(g.queue) == 0 {
				g.ticking = false
				g.mu.Unlock()
				return
			}
			g.mu.Unlock()
		case <-g.done:
			g.mu.Lock()
			g.ticking = false
			g.mu.Unlock()
			return
		}
	}
}
