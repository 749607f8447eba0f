// Package bootstrap establishes the shared runtime (config, database, redis,
// tracing) used by the server and the seeder entry points.
package bootstrap

import (
	"context"
	"fmt"

	"campusboard/internal/cache"
	"campusboard/internal/config"
	"campusboard/internal/database"
	"campusboard/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the process-wide dependencies established at startup.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	shutdownTracing func(context.Context) error
}

// Init loads configuration and connects the database, redis, and the tracer
// provider. Redis being unreachable is not fatal: the cache and notifier
// degrade to pass-through behavior on a nil client.
func Init(serviceName, serviceVersion string) (*Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	rt := &Runtime{Config: cfg}

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    serviceName,
			ServiceVersion: serviceVersion,
			Environment:    cfg.Env,
			Enabled:        cfg.TracingEnabled,
			Exporter:       cfg.TracingExport,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			SamplerRatio:   cfg.TracingSampler,
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db

	cache.InitRedis(cfg.RedisURL)
	rt.Redis = cache.GetClient()

	return rt, nil
}

// Shutdown flushes and stops runtime components not owned by the server.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	if rt.shutdownTracing != nil {
		return rt.shutdownTracing(ctx)
	}
	return nil
}
