package task

import (
	"context"

	"admissions-backoffice/pkg/config"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

var Client = fx.Module("asynq.client",
	fx.Provide(newClient, NewEnqueuer),
)

func newClient(lc fx.Lifecycle, cfg *config.Config) (*asynq.Client, error) {
	client := asynq.NewClient(redisOpt(cfg))
	if err := client.Ping(); err != nil {
		zap.L().Error("[Asynq] failed to reach broker", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

var Server = fx.Module("asynq.server",
	fx.Provide(asynq.NewServeMux),
	fx.Invoke(runServer),
)

// ServerConfig sizes the worker from WORKER.CONCURRENCY and weights the
// queues so critical work is polled six times as often as low.
func ServerConfig(cfg *config.Config) asynq.Config {
	concurrency := cfg.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.Config{
		Concurrency:    concurrency,
		RetryDelayFunc: asynq.DefaultRetryDelayFunc,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			zap.L().Error("task failed",
				zap.String("task_type", t.Type()),
				zap.Int("retried", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err),
			)
		}),
	}
}

func runServer(lc fx.Lifecycle, cfg *config.Config, mux *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(cfg), ServerConfig(cfg))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := srv.Start(mux); err != nil {
				zap.L().Error("[Asynq] failed to start worker", zap.Error(err))
				return err
			}
			zap.L().Info("[Asynq] worker started", zap.String("addr", cfg.Redis.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}
