//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLimiterSharedQuota(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	// Two replicas drawing from the same key.
	a := NewRedis(client, "test:quota", Basic)
	b := NewRedis(client, "test:quota", Basic)
	a.now, b.now = clock, clock

	admitted := 0
	for i := 0; i < 11; i++ {
		l := a
		if i%2 == 1 {
			l = b
		}
		d, err := l.TryAcquire(ctx)
		if err != nil {
			t.Fatalf("TryAcquire: %v", err)
		}
		if d.Admitted {
			admitted++
		} else if d.RetryAfter != time.Minute {
			t.Fatalf("expected RetryAfter 1m, got %v", d.RetryAfter)
		}
	}
	if admitted != 10 {
		t.Fatalf("expected 10 admissions, got %d", admitted)
	}

	now = now.Add(time.Minute)
	if d, err := a.TryAcquire(ctx); err != nil || !d.Admitted {
		t.Fatalf("expected admission in next window, got %+v, %v", d, err)
	}
}

func TestRedisLimiterReportsBackendErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	if _, err := NewRedis(client, "", Basic).TryAcquire(context.Background()); err == nil {
		t.Fatal("expected an error from an unreachable redis")
	}
}
