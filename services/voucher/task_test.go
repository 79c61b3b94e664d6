package voucher

import (
	"context"
	"testing"
	"time"

	"admissions-backoffice/pkg/taskname"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestHandleExpireOverdue(t *testing.T) {
	svc, _ := newTestService(t)
	v := createVoucher(t, svc, CreateRequest{Code: "STALE", Type: TypeFullWaiver, ValidFrom: "2024-01-01", ValidUntil: "2024-12-31"})

	h := NewTaskHandler(svc)
	require.NoError(t, h.HandleExpireOverdue(context.Background(), asynq.NewTask(taskname.VoucherExpireOverdue, nil)))

	got, err := svc.Get(context.Background(), v.ID)
	require.NoError(t, err)
	require.Equal(t, StatusExpired, got.Status)
}

func TestExpiryJobTaskIDPerDay(t *testing.T) {
	loc := time.FixedZone("EAT", 3*3600)
	job := ExpiryJob(loc)

	task, opts := job.Build(time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC))
	require.Equal(t, taskname.VoucherExpireOverdue, task.Type())
	require.NotEmpty(t, opts)

	var id string
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id = o.Value().(string)
		}
	}
	require.Equal(t, taskname.VoucherExpireOverdue+":2025-03-15", id)
}
