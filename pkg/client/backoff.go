package client

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy yields the wait before retry number attempt (0-based).
type BackoffStrategy interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff grows Base by Factor per attempt up to Max, then spreads
// the result by ±Jitter.
type ExponentialBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64 // 0.0 to 1.0
}

// DefaultBackoff is the retry strategy used by NewClient.
// Base: 100ms, Max: 2s, Factor: 2.0, Jitter: 0.2
func DefaultBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		Base:   100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2.0,
		Jitter: 0.2,
	}
}

func (b *ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := math.Min(float64(b.Base)*math.Pow(b.Factor, float64(attempt)), float64(b.Max))
	if b.Jitter > 0 {
		delay += delay * (rand.Float64()*2 - 1) * b.Jitter
	}
	return time.Duration(math.Max(delay, 0))
}

// ConstantBackoff waits the same duration before every retry.
type ConstantBackoff time.Duration

func (c ConstantBackoff) Next(int) time.Duration { return time.Duration(c) }
