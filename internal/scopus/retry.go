// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds retries of a single page request. Retry behavior is
// data: the policy travels with the client instead of being baked into
// call sites. Only transient failures are retried; invalid queries and
// exhausted keys pass straight through.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration

	// Factor multiplies the delay after each failure (exponential growth).
	Factor float64

	// Jitter randomizes each delay by ±Jitter fraction (0 disables it).
	Jitter float64

	// sleep is replaced in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the policy used when the config leaves the
// retry parameters unset: 3 attempts, 500 ms base, doubling, 10% jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Factor:      2.0,
		Jitter:      0.1,
	}
}

// Do runs fn up to MaxAttempts times, backing off between attempts. A
// non-transient error returns immediately. After the last transient
// failure Do returns a *TransientFetchError wrapping it.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := p.wait(ctx, p.delay(attempt)); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		last = err
	}
	return &TransientFetchError{Attempts: attempts, Cause: last}
}

// delay computes the backoff before the given attempt (1-based for the
// first retry).
func (p RetryPolicy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	factor := p.Factor
	if factor <= 1 {
		factor = 2.0
	}

	d := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	if p.Jitter > 0 {
		spread := 1 + p.Jitter*(2*rand.Float64()-1)
		d = time.Duration(float64(d) * spread)
	}
	return d
}

func (p RetryPolicy) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
