package cache

import (
	"fmt"

	"go.uber.org/zap"

	appinventory "github.com/imaps/backend/internal/application/inventory"
	"github.com/imaps/backend/internal/infrastructure/config"
)

// ReportCacheFactory creates report caches based on configuration.
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory.
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory.
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory.
func NewReportCacheFactory(cfg config.RedisConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns a Redis-backed cache when Redis is enabled, falling
// back to the in-memory cache when Redis is disabled or unreachable
// (unless fallback is disallowed, in which case the error surfaces).
func (f *ReportCacheFactory) Create() (appinventory.ReportCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory report cache")
		return NewInMemoryReportCache(), nil
	}

	redisCache, err := NewRedisReportCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using redis report cache",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port),
		)
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis report cache unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, falling back to in-memory report cache",
		zap.Error(err),
	)
	return NewInMemoryReportCache(), nil
}
