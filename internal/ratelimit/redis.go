package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey prefixes the per-window counters of the basic profile.
const DefaultRedisKey = "ratelimit:weather:basic"

// The counter of each window lives under its own key and expires with it.
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Redis is a fixed-window limiter whose counter is shared through Redis, so
// several replicas draw from one quota. Windows are aligned to the Unix epoch.
type Redis struct {
	client redis.Scripter
	key    string
	limit  int
	window time.Duration
	now    func() time.Time
}

var _ Limiter = (*Redis)(nil)

// NewRedis creates a Redis-backed limiter. An empty key means DefaultRedisKey.
func NewRedis(client redis.Scripter, key string, cfg Config) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{
		client: client,
		key:    key,
		limit:  cfg.Max,
		window: cfg.Window,
		now:    time.Now,
	}
}

// TryAcquire increments the current window's counter atomically on the server.
func (l *Redis) TryAcquire(ctx context.Context) (Decision, error) {
	windowMs := l.window.Milliseconds()
	nowMs := l.now().UnixMilli()
	bucket := nowMs / windowMs

	key := fmt.Sprintf("%s:%d", l.key, bucket)
	n, err := fixedWindowScript.Run(ctx, l.client, []string{key}, windowMs).Int64()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis counter %s: %w", key, err)
	}

	if n > int64(l.limit) {
		retry := time.Duration((bucket+1)*windowMs-nowMs) * time.Millisecond
		return Decision{RetryAfter: retry}, nil
	}
	return Decision{Admitted: true}, nil
}
