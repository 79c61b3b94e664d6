package voucher

import (
	"context"
	"time"

	"admissions-backoffice/pkg/task"
	"admissions-backoffice/pkg/taskname"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskHandler runs voucher background jobs on the asynq worker.
type TaskHandler struct {
	svc *Service
}

func NewTaskHandler(svc *Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(taskname.VoucherExpireOverdue, h.HandleExpireOverdue)
}

func (h *TaskHandler) HandleExpireOverdue(ctx context.Context, t *asynq.Task) error {
	zap.L().Info("[Task] running voucher expiry", zap.String("task_type", t.Type()))

	n, err := h.svc.ExpireOverdue(ctx)
	if err != nil {
		return err
	}

	zap.L().Info("[Task] voucher expiry finished", zap.Int64("expired", n))
	return nil
}

// ExpiryJob enqueues the sweep shortly after midnight in loc. The task id
// is keyed by date so a restarted scheduler never queues the same day twice.
func ExpiryJob(loc *time.Location) task.DailyJob {
	if loc == nil {
		loc = time.UTC
	}
	return task.DailyJob{
		Name:     taskname.VoucherExpireOverdue,
		Hour:     0,
		Minute:   5,
		Location: loc,
		Build: func(now time.Time) (*asynq.Task, []asynq.Option) {
			day := now.In(loc).Format("2006-01-02")
			return asynq.NewTask(taskname.VoucherExpireOverdue, nil), []asynq.Option{
				asynq.TaskID(taskname.VoucherExpireOverdue + ":" + day),
				asynq.Queue(task.QueueLow),
				asynq.MaxRetry(3),
				asynq.Retention(24 * time.Hour),
			}
		},
	}
}
