package limiter

import (
	"errors"
	"fmt"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/provider"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPolicyName = "default"

// Manager hands out named limiters. Unknown names get the default policy.
type Manager struct {
	limiters map[string]Limiter
}

// NewManager builds one limiter per policy. A nil redis client disables rate
// limiting entirely.
func NewManager(cfg *conf.RateLimiterConfig, redisClient *redis.Client, ns provider.RedisNamespace, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("rate limiter config is nil")
	}

	if redisClient == nil {
		logger.Named("RateLimiter").Warn("Redis is not configured, rate limiting is disabled")
		return &Manager{limiters: map[string]Limiter{defaultPolicyName: unlimited{}}}, nil
	}

	limiters := make(map[string]Limiter, len(cfg.Policies)+1)
	build := func(name string, policy conf.RateLimiterPolicy) error {
		rate, size, ttl, err := parsePolicy(policy)
		if err != nil {
			return fmt.Errorf("policy %q: %w", name, err)
		}
		limiters[name] = NewRedisRateLimiter(redisClient, ns, name, rate, size, ttl)
		return nil
	}

	if err := build(defaultPolicyName, cfg.Default); err != nil {
		return nil, err
	}
	for name, policy := range cfg.Policies {
		if err := build(name, policy); err != nil {
			return nil, err
		}
	}
	return &Manager{limiters: limiters}, nil
}

// parsePolicy converts "limit per interval" into a refill rate in tokens per
// second and a bucket of limit tokens. Idle buckets expire after two intervals.
func parsePolicy(policy conf.RateLimiterPolicy) (rate, size float64, ttl time.Duration, err error) {
	if policy.Limit <= 0 {
		return 0, 0, 0, errors.New("limit must be positive")
	}
	interval, err := time.ParseDuration(policy.Interval)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid interval: %w", err)
	}
	if interval <= 0 {
		return 0, 0, 0, errors.New("interval must be positive")
	}
	return float64(policy.Limit) / interval.Seconds(), float64(policy.Limit), 2 * interval, nil
}

func (m *Manager) Get(name string) Limiter {
	if l, ok := m.limiters[name]; ok {
		return l
	}
	return m.limiters[defaultPolicyName]
}
