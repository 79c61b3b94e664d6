package main

import (
	"log"

	"admissions-backoffice/pkg/config"
	"admissions-backoffice/pkg/db"
	"admissions-backoffice/pkg/gen"
	"admissions-backoffice/pkg/logger"
	"admissions-backoffice/pkg/otelcol"
	"admissions-backoffice/pkg/redis"
	"admissions-backoffice/pkg/secretmanager"
	"admissions-backoffice/pkg/sequence"
	"admissions-backoffice/pkg/task"
	"admissions-backoffice/services/voucher"

	"go.uber.org/fx"
)

func main() {
	opts := []fx.Option{
		secretmanager.Module,
		config.Module,
		logger.Module,
		otelcol.Module,
		db.Module,
		redis.Module,
		gen.Module,
		sequence.Module,
		task.Client,
		task.Server,
		voucher.TaskModule,
		fx.Provide(newScheduler),
		fx.Invoke(task.StartScheduler),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}

func newScheduler(cfg *config.Config, enqueuer task.Enqueuer) *task.Scheduler {
	return task.NewScheduler(enqueuer,
		voucher.ExpiryJob(cfg.Location()),
	)
}
