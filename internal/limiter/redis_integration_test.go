package limiter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gst_billing/internal/conf"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func configureDockerDesktop(t *testing.T) {
	t.Helper()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	socket := filepath.Join(home, ".docker", "run", "docker.sock")
	if info, err := os.Stat(socket); err == nil && !info.IsDir() {
		t.Setenv("DOCKER_HOST", "unix://"+socket)
		t.Setenv("TESTCONTAINERS_DOCKER_SOCKET_OVERRIDE", socket)
	}
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	configureDockerDesktop(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.2-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisRateLimiterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration test in short mode")
	}
	client := setupRedis(t)

	m, err := NewManager(&conf.RateLimiterConfig{
		Default: conf.RateLimiterPolicy{Interval: "1s", Limit: 100},
		Policies: map[string]conf.RateLimiterPolicy{
			"create_bill": {Interval: "1h", Limit: 3},
		},
	}, client, "gst_billing:test:", zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	l := m.Get("create_bill")

	t.Run("Denies once the bucket is empty", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.True(t, ok, "request %d", i)
		}
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Buckets are per identifier", func(t *testing.T) {
		ok, err := l.Allow(ctx, "10.0.0.2")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Buckets are per policy", func(t *testing.T) {
		ok, err := m.Get("verify_bill").Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Bucket refills over time", func(t *testing.T) {
		rl := l.(*RedisRateLimiter)
		base := time.Now()
		rl.now = func() time.Time { return base.Add(30 * time.Minute) }
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	ttl, err := client.TTL(ctx, "gst_billing:test:ratelimit:create_bill:10.0.0.1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour)
}
