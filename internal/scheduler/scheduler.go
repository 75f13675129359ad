// Package scheduler runs the server's periodic housekeeping on cron specs:
// pruning expired sessions and idle rate-limit buckets, and optionally
// sweeping every user for due match reminders.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/metrics"
	"github.com/sakif/sportshub/internal/middleware"
	"github.com/sakif/sportshub/internal/service"
)

// Job is one unit of periodic work. ctx is cancelled when the scheduler
// stops.
type Job func(ctx context.Context)

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// New creates a stopped scheduler. A job that panics is logged and the
// schedule carries on; a job still running when its next tick comes is
// skipped for that tick.
func New(logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			// Chains wrap right to left: Recover must sit inside
			// SkipIfStillRunning or a panic never releases its slot.
			cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Add registers job under spec ("@every 10m", "0 3 * * *").
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("scheduled job starting", slog.String("job", name))
		job(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduler: adding %s (%q): %w", name, spec, err)
	}
	s.logger.Info("scheduled job registered", slog.String("job", name), slog.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs, cancels the jobs' context and waits for running
// jobs to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: waiting for running jobs: %w", ctx.Err())
	}
}

// PruneSessions drops expired sessions and forgets idle rate-limit clients.
// limiter and m may be nil.
func PruneSessions(sessions *auth.SessionStore, limiter *middleware.RateLimiter, m *metrics.Metrics, logger *slog.Logger) Job {
	return func(context.Context) {
		pruned := sessions.Prune()
		m.SessionsPruned(pruned)

		forgotten := 0
		if limiter != nil {
			forgotten = limiter.Cleanup()
		}

		if pruned > 0 || forgotten > 0 {
			logger.Info("housekeeping done",
				slog.Int("sessions_pruned", pruned),
				slog.Int("rate_limit_clients_dropped", forgotten),
			)
		}
	}
}

// SweepReminders creates due match reminders for every user.
func SweepReminders(notifications *service.NotificationService, logger *slog.Logger) Job {
	return func(ctx context.Context) {
		created, err := notifications.SweepAll(ctx)
		if err != nil {
			logger.Error("reminder sweep failed", slog.String("error", err.Error()))
			return
		}
		if created > 0 {
			logger.Info("reminder sweep done", slog.Int("created", created))
		}
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
