package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/voice-recorder/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProvideRedisClient returns nil when REDIS_ADDR is unset; the transcript
// cache is then disabled.
func ProvideRedisClient(lc fx.Lifecycle, cfg *Config, log *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, transcript cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

// ProvideDatabase opens postgres when DATABASE_DSN is set and a local
// sqlite file otherwise.
func ProvideDatabase(cfg *Config, log *slog.Logger) (*gorm.DB, error) {
	dialector := postgres.Open(cfg.DatabaseDSN)
	if cfg.DatabaseDSN == "" {
		log.Info("DATABASE_DSN not set, using sqlite", "path", cfg.SQLitePath)
		dialector = sqlite.Open(cfg.SQLitePath)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func ProvideMetrics() *metrics.Metrics {
	return metrics.New()
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideDatabase,
		ProvideMetrics,
	),
)
