package ratelimit

import "time"

// Limiter decides whether a request identified by key may proceed.
// When it may not, retryAfter estimates when the next token is available.
type Limiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration)
}

// NopLimiter lets everything through.
type NopLimiter struct{}

// Allow always returns true.
func (NopLimiter) Allow(string) (bool, time.Duration) { return true, 0 }
