package crawler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a scheduled unit of work, usually a closure around Service.Run.
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron schedule. A tick arriving while the previous run is still
// busy is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{logger: logger}),
		)),
		logger: logger,
	}
}

// Run registers job under the standard five-field schedule and blocks until ctx is done.
// A running job is given ctx, so it is cancelled together with the scheduler.
func (s *Scheduler) Run(ctx context.Context, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.logger.Info("scheduled run triggered")
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("schedule", schedule))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")

	return nil
}

// cronLogger adapts zap to cron's logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
