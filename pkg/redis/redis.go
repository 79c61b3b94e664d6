package redis

import (
	"context"
	"fmt"
	"time"

	"admissions-backoffice/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("redis",
	fx.Provide(New),
)

const (
	connectAttempts = 5
	connectBackoff  = 3 * time.Second
)

// New connects to Redis and fails startup when it stays unreachable, since
// every application and receipt number is drawn from it.
func New(lc fx.Lifecycle, c *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        c.Redis.Addr,
		Password:    c.Redis.Password,
		DB:          c.Redis.DB,
		PoolSize:    c.Redis.PoolSize,
		PoolTimeout: c.Redis.PoolTimeout,
	})

	if err := WaitReady(context.Background(), rdb, connectAttempts, connectBackoff); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

// WaitReady pings rdb up to attempts times, sleeping backoff between tries.
func WaitReady(ctx context.Context, rdb *redis.Client, attempts int, backoff time.Duration) error {
	zapLog := zap.L().With(zap.String("addr", rdb.Options().Addr), zap.Int("db", rdb.Options().DB))

	var err error
	for i := 1; i <= attempts; i++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			zapLog.Info("[Redis] connected")
			return nil
		}
		if i == attempts {
			break
		}

		zapLog.Warn("[Redis] not ready, retrying", zap.Int("attempt", i), zap.Duration("backoff", backoff), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis unreachable after %d attempts: %w", attempts, err)
}
