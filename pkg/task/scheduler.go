package task

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DailyJob is a task enqueued once a day at Hour:Minute in Location.
type DailyJob struct {
	Name     string
	Hour     int
	Minute   int
	Location *time.Location
	Build    func(now time.Time) (*asynq.Task, []asynq.Option)
}

type Scheduler struct {
	enqueuer Enqueuer
	jobs     []DailyJob
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(enqueuer Enqueuer, jobs ...DailyJob) *Scheduler {
	return &Scheduler{
		enqueuer: enqueuer,
		jobs:     jobs,
		now:      time.Now,
	}
}

// StartScheduler ties the scheduler loops to the fx lifecycle.
func StartScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.run(ctx)
	}()
}

func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context) {
	zap.L().Info("[Scheduler] started", zap.Int("jobs", len(s.jobs)))

	for {
		now := s.now()
		job, next := s.nextJob(now)
		if job == nil {
			return
		}

		sleepDuration := next.Sub(now)
		zap.L().Info("[Scheduler] next run scheduled",
			zap.String("job", job.Name),
			zap.Time("next_run", next),
			zap.Duration("sleep_for", sleepDuration),
		)

		timer := time.NewTimer(sleepDuration)
		select {
		case <-timer.C:
			s.RunJob(ctx, *job)
		case <-ctx.Done():
			timer.Stop()
			zap.L().Warn("[Scheduler] stopped")
			return
		}
	}
}

func (s *Scheduler) nextJob(now time.Time) (*DailyJob, time.Time) {
	var (
		picked *DailyJob
		at     time.Time
	)
	for i := range s.jobs {
		next := NextRunTime(now, s.jobs[i].Hour, s.jobs[i].Minute, s.jobs[i].Location)
		if picked == nil || next.Before(at) {
			picked, at = &s.jobs[i], next
		}
	}
	return picked, at
}

// RunJob enqueues a single job immediately. Duplicate enqueues within the
// unique window are ignored.
func (s *Scheduler) RunJob(ctx context.Context, job DailyJob) {
	start := s.now()
	t, opts := job.Build(start)

	info, err := s.enqueuer.Enqueue(ctx, t, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
			zap.L().Info("[Scheduler] job already enqueued", zap.String("job", job.Name))
			return
		}
		zap.L().Error("[Scheduler] failed to enqueue job", zap.String("job", job.Name), zap.Error(err))
		return
	}

	zap.L().Info("[Scheduler] job enqueued",
		zap.String("job", job.Name),
		zap.String("task_id", info.ID),
		zap.Duration("duration", time.Since(start)),
	)
}

// NextRunTime returns the next time at hour:minute in loc strictly after now.
func NextRunTime(now time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = now.Location()
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
