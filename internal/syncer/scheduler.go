package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// Scheduler runs sync cycles on a cron schedule with a seconds field.
// A tick that fires while the previous cycle is still running is skipped.
type Scheduler struct {
	cron   *cron.Cron
	syncer Syncer
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler for spec, e.g. "0 */15 * * * *"
func NewScheduler(s Syncer, spec string) (*Scheduler, error) {
	sch := &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))),
		syncer: s,
	}

	if _, err := sch.cron.AddFunc(spec, sch.tick); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}

	return sch, nil
}

// Start starts the schedule; cycles run with ctx until Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	logger.Info("Sync scheduler started")
}

// Stop cancels the running cycle and waits for it to return
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	logger.Info("Sync scheduler stopped")
}

func (s *Scheduler) tick() {
	_, err := s.syncer.Run(s.ctx, nil)
	if errors.Is(err, ErrRunInProgress) {
		logger.Warn("Previous sync run still in progress, skipping")
	}
}

// cronLogger routes cron's own logging to the global logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(fmt.Errorf("%s: %w", msg, err), zap.Any("details", keysAndValues))
}
