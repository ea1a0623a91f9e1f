// Package ratelimit implements the admission gate in front of the weather
// endpoint: a single quota shared by every caller.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of an admission attempt.
type Decision struct {
	Admitted bool
	// RetryAfter is the time left in the current window when rejected.
	RetryAfter time.Duration
}

// Limiter admits or rejects a request immediately; it never waits.
type Limiter interface {
	TryAcquire(ctx context.Context) (Decision, error)
}

// Config describes a quota of Max admissions per Window.
type Config struct {
	Max    int
	Window time.Duration
}

// Basic is the default profile: 10 requests per minute.
var Basic = Config{Max: 10, Window: time.Minute}
