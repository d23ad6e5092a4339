package limiter

import (
	"context"
	"fmt"
	"time"

	"gst_billing/internal/provider"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether one more request from identifier may proceed.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}

// tokenBucketScript refills the bucket by elapsed time, then takes one token
// if enough are left. Runs atomically inside Redis.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local ttl = math.ceil(tonumber(ARGV[5]))

local state = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
else
	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)
end

local allowed = 0
if tokens >= requested then
	tokens = tokens - requested
	allowed = 1
end

redis.call("HSET", key, "tokens", tokens, "last_refill", now)
redis.call("EXPIRE", key, ttl)
return allowed
`)

// RedisRateLimiter is a token bucket shared by every instance using the same Redis.
type RedisRateLimiter struct {
	client     *redis.Client
	keyPrefix  string
	rate       float64 // tokens per second
	bucketSize float64
	keyTTL     time.Duration
	now        func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, ns provider.RedisNamespace, policy string, rate, size float64, ttl time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:     client,
		keyPrefix:  fmt.Sprintf("%sratelimit:%s:", ns, policy),
		rate:       rate,
		bucketSize: size,
		keyTTL:     ttl,
		now:        time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	now := float64(l.now().UnixNano()) / 1e9
	res, err := tokenBucketScript.Run(ctx, l.client, []string{l.keyPrefix + identifier},
		l.rate, l.bucketSize, now, 1, l.keyTTL.Seconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit script: %w", err)
	}
	return res == 1, nil
}

// unlimited is used when Redis is not configured.
type unlimited struct{}

func (unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
