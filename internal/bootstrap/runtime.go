// Package bootstrap wires the database, Redis and fixtures for the commands.
package bootstrap

import (
	"context"
	"fmt"

	"inkpost/internal/cache"
	"inkpost/internal/config"
	"inkpost/internal/database"
	"inkpost/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedFixtures bool
}

// InitRuntime connects to the database and Redis and optionally loads fixtures.
// The Redis client is nil when the server is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedFixtures {
		if err := seed.LoadFixtures(context.Background(), db); err != nil {
			return nil, nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
	}

	return db, r, nil
}
