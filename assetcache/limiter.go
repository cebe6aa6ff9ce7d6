package assetcache

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token-bucket Admission: up to burst uploads immediately,
// refilling at perMinute tokens per minute. A refused upload surfaces as
// OutcomeThrottled; the limiter never blocks.
type RateLimiter struct {
	mu     sync.Mutex
	tokens float64
	burst  float64
	rate   float64 // tokens per second
	last   time.Time
	now    func() time.Time
}

// NewRateLimiter creates a limiter admitting perMinute uploads per minute
// with the given burst. perMinute <= 0 admits everything.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		tokens: float64(burst),
		burst:  float64(burst),
		rate:   float64(perMinute) / 60,
		now:    time.Now,
	}
}

// Admit implements Admission.
func (l *RateLimiter) Admit(ctx context.Context, size int64) bool {
	if l.rate <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.last.IsZero() {
		l.tokens += now.Sub(l.last).Seconds() * l.rate
		if l.tokens > l.burst {
			l.tokens = l.burst
		}
	}
	l.last = now

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}
