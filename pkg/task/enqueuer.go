package task

import (
	"context"
	"fmt"

	"admissions-backoffice/pkg/logger"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer submits tasks to the worker queues.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type clientEnqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) Enqueuer {
	return &clientEnqueuer{client: client}
}

// Enqueue wraps asynq errors with the task type; errors.Is still sees
// asynq.ErrDuplicateTask and asynq.ErrTaskIDConflict.
func (e *clientEnqueuer) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := e.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}

	logger.FromContext(ctx).Debug("task enqueued",
		zap.String("task_type", task.Type()),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
	)
	return info, nil
}
