package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// Job is one unit of periodic maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	log  *logger.Logger
	cron *cron.Cron
	ctx  context.Context

	cancel context.CancelFunc
}

func NewScheduler(baseLog *logger.Logger) *Scheduler {
	return &Scheduler{
		log:  baseLog.With("component", "JobScheduler"),
		cron: cron.New(cron.WithLocation(time.UTC)),
		ctx:  context.Background(),
	}
}

// Register adds job under a cron spec such as "@every 1h" or "0 * * * *".
func (s *Scheduler) Register(spec string, job Job) error {
	if job == nil {
		return fmt.Errorf("register job: nil job")
	}
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(s.ctx, job); err != nil {
			s.log.Warn("job run failed", "job", job.Name(), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register job %s with schedule %q: %w", job.Name(), spec, err)
	}
	s.log.Info("job registered", "job", job.Name(), "schedule", spec)
	return nil
}

// RunOnce runs job synchronously and turns a panic into an error.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panic", "job", job.Name(), "panic", r)
			err = errFromRecover(r)
		}
	}()
	err = job.Run(ctx)
	s.log.Debug("job finished", "job", job.Name(), "duration_ms", time.Since(start).Milliseconds())
	return err
}

// Start begins firing registered jobs. Jobs see a context that is
// cancelled by Stop or when ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.log.Info("job scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts scheduling and waits for running jobs to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.log.Info("job scheduler stopped")
}

type panicError struct{ v any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.v) }

func errFromRecover(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return &panicError{v: v}
}
