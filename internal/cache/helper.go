package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"inkpost/internal/middleware"
	"inkpost/internal/observability"

	"github.com/redis/go-redis/v9"
)

type lookup string

const (
	lookupHit   lookup = "hit"
	lookupMiss  lookup = "miss"
	lookupError lookup = "error"
)

// load decodes key into dest.
func load(ctx context.Context, key string, dest any) (lookup, error) {
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return lookupMiss, nil
	}
	if err == nil {
		err = json.Unmarshal(raw, dest)
	}
	if err != nil {
		return lookupError, err
	}
	return lookupHit, nil
}

func store(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Aside is a read-through: a hit fills dest from Redis, a miss runs fetch
// (which fills dest) and caches the result for ttl. Redis trouble is logged
// and never fails the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	result, err := load(ctx, key, dest)
	observability.CacheLookups.WithLabelValues(keyFamily(key), string(result)).Inc()
	if result == lookupHit {
		return nil
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := fetch(); err != nil {
		return err
	}
	if err := store(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}
