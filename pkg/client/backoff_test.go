package client

import (
	"testing"
	"time"
)

func TestExponentialBackoff_Next(t *testing.T) {
	b := &ExponentialBackoff{
		Base:   100 * time.Millisecond,
		Max:    1 * time.Second,
		Factor: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 100 * time.Millisecond},
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1 * time.Second},
		{9, 1 * time.Second},
	}

	for _, tt := range tests {
		if got := b.Next(tt.attempt); got != tt.expected {
			t.Errorf("Next(%d) = %v; want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	b := &ExponentialBackoff{
		Base:   100 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2.0,
		Jitter: 0.1,
	}

	lo, hi := 90*time.Millisecond, 110*time.Millisecond
	for i := 0; i < 100; i++ {
		if got := b.Next(0); got < lo || got > hi {
			t.Errorf("Next(0) with jitter = %v; want between %v and %v", got, lo, hi)
		}
	}
}

func TestConstantBackoff(t *testing.T) {
	c := ConstantBackoff(5 * time.Millisecond)
	if c.Next(0) != 5*time.Millisecond || c.Next(7) != 5*time.Millisecond {
		t.Error("constant backoff should not grow")
	}
}
