package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiryChecker ends the session once its token has expired.
type ExpiryChecker interface {
	CheckExpiry(ctx context.Context) bool
}

// ExpiryWorker polls the session for token expiry on a cron schedule.
type ExpiryWorker struct {
	sessions ExpiryChecker
	schedule cron.Schedule
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewExpiryWorker parses spec, e.g. "@every 30s" or a standard five-field expression.
func NewExpiryWorker(sessions ExpiryChecker, spec string, logger *zap.Logger) (*ExpiryWorker, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry check schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryWorker{
		sessions: sessions,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}, nil
}

// Start runs the schedule until ctx is done. It does not block.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.cron.Schedule(w.schedule, cron.FuncJob(func() { w.RunOnce(ctx) }))
	w.cron.Start()
	w.logger.Info("session expiry watcher started")

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		w.logger.Info("session expiry watcher stopped")
	}()
}

// RunOnce performs a single expiry check.
func (w *ExpiryWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if w.sessions.CheckExpiry(ctx) {
		w.logger.Info("session expired; signed out")
	}
}

func newCron(logger *zap.Logger) *cron.Cron {
	cl := cronLogger{logger: logger.Named("cron")}
	return cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
}

// cronLogger routes the scheduler's own logging through zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
