// Package cache stores collaborator answers so repeated requests for the same
// key do not hit the external service again.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/repair-reserve/pkg/constants"
	"go.uber.org/zap"
)

// Repository is a string key/value store with per-entry expiry.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Config selects and configures a cache backend.
type Config struct {
	Backend  string `yaml:"backend" mapstructure:"backend"`   // memory, redis
	Address  string `yaml:"address" mapstructure:"address"`   // redis host:port
	Password string `yaml:"password" mapstructure:"password"` // optional
	DB       int    `yaml:"db" mapstructure:"db"`
}

// New builds the repository described by cfg. An empty backend means memory.
func New(logger *zap.Logger, cfg Config) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case "", constants.CacheBackendMemory:
		logger.Debug("using in-memory cache",
			zap.String("op", "cache.New"),
		)
		return NewMemoryCache(), nil
	case constants.CacheBackendRedis:
		if cfg.Address == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		logger.Debug("using redis cache",
			zap.String("op", "cache.New"),
			zap.String("address", cfg.Address),
			zap.Int("db", cfg.DB),
		)
		return NewRedisCache(cfg.Address, cfg.Password, cfg.DB), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
