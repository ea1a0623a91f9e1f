package ratelimit

import (
	"context"
	"sync"
	"time"
)

// FixedWindow is an in-memory fixed-window limiter. Windows are aligned to
// the moment the limiter was created.
type FixedWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time

	origin time.Time
	start  time.Time
	count  int
}

var _ Limiter = (*FixedWindow)(nil)

// NewFixedWindow creates a limiter admitting at most cfg.Max requests per cfg.Window.
func NewFixedWindow(cfg Config) *FixedWindow {
	return newFixedWindow(cfg, time.Now)
}

func newFixedWindow(cfg Config, now func() time.Time) *FixedWindow {
	t := now()
	return &FixedWindow{
		limit:  cfg.Max,
		window: cfg.Window,
		now:    now,
		origin: t,
		start:  t,
	}
}

// TryAcquire checks and increments the window counter in one critical section.
func (l *FixedWindow) TryAcquire(_ context.Context) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(l.start); elapsed >= l.window {
		n := now.Sub(l.origin) / l.window
		l.start = l.origin.Add(n * l.window)
		l.count = 0
	}

	if l.count >= l.limit {
		return Decision{RetryAfter: l.start.Add(l.window).Sub(now)}, nil
	}
	l.count++
	return Decision{Admitted: true}, nil
}
