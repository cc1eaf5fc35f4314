// Package cache provides the TTL caches shared by request handlers: plan dedup entries
// and verified identity tokens. Implementations are safe for concurrent use.
package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"alcyxob/fitgen/internal/config"
)

// Cache stores opaque values under string keys until their TTL runs out.
type Cache interface {
	// Get returns the value and true, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig, rcfg config.RedisConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.MaxEntries, max(cfg.TTL, cfg.TokenTTL), time.Now), nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        rcfg.Addr,
			Password:    rcfg.Password,
			DB:          rcfg.DB,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedis(rdb, "fitgen:"), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
