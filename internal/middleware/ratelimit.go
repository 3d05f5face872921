package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkpost/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoRedis = errors.New("redis client is nil")

// RateLimitBypassed reports whether env is exempt from rate limiting.
func RateLimitBypassed(env string) bool {
	switch env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for resource/id in a fixed window.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimiter builds per-route limit middleware sharing one Redis client and environment.
type RateLimiter struct {
	rdb    *redis.Client
	env    string
	policy FailPolicy
}

func NewRateLimiter(rdb *redis.Client, env string) *RateLimiter {
	return &RateLimiter{rdb: rdb, env: env, policy: FailOpen}
}

// WithPolicy returns a copy of the limiter using policy when Redis fails.
func (l *RateLimiter) WithPolicy(policy FailPolicy) *RateLimiter {
	cp := *l
	cp.policy = policy
	return &cp
}

// Limit returns a Fiber middleware enforcing `limit` requests per `window` for resource.
// It keys by authenticated member (if set in locals) otherwise by remote IP.
func (l *RateLimiter) Limit(resource string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if RateLimitBypassed(l.env) {
			return c.Next()
		}

		var id string
		if mid, ok := c.Locals(LocalMemberID).(uint); ok {
			id = fmt.Sprintf("member:%d", mid)
		} else {
			id = fmt.Sprintf("ip:%s", c.IP())
		}

		allowed, err := CheckRateLimit(c.UserContext(), l.rdb, resource, id, limit, window)
		if err != nil {
			if l.policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					slog.String("resource", resource), slog.String("error", err.Error()))
				return models.RespondWithError(c, &models.AppError{
					Kind:    models.KindInternal,
					Code:    "503-1",
					Message: "잠시 후 다시 시도해주세요.",
					Err:     err,
				})
			}
			return c.Next()
		}

		if !allowed {
			return models.RespondWithError(c, models.NewTooManyRequestsError())
		}
		return c.Next()
	}
}
