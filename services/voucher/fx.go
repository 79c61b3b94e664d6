package voucher

import (
	"admissions-backoffice/pkg/httpapi"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var Module = fx.Module("voucher.service",
	fx.Provide(
		NewService,
		httpapi.AsRoutes(NewHandler),
	),
)

// TaskModule wires the voucher jobs into the asynq worker.
var TaskModule = fx.Module("voucher.task",
	fx.Provide(NewService, NewTaskHandler),
	fx.Invoke(func(h *TaskHandler, mux *asynq.ServeMux) { h.Register(mux) }),
)
