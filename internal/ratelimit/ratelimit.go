// Package ratelimit provides a fixed-interval gate for outbound requests
// using a token bucket.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate enforces a minimum interval between successive operations.
// The first call passes immediately; every later call waits until the
// interval since the previous pass has elapsed.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a gate with the given minimum interval between passes.
// A non-positive interval yields a gate that never waits.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{}
	}
	// Token bucket with burst of 1: exactly one operation per interval.
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the gate allows the next operation or the context is
// canceled.
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}
