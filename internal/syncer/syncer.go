package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/fetcher"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/messaging"
	"github.com/hermanjons/OrderScout-sub000/internal/normalize"
	"github.com/hermanjons/OrderScout-sub000/internal/store"
	"github.com/hermanjons/OrderScout-sub000/internal/writer"
)

// ErrRunInProgress is returned when a run is requested while another one is still going
var ErrRunInProgress = errors.New("sync run already in progress")

// Config holds the configuration for the order syncer
type Config struct {
	Platform string
	Statuses []domain.OrderStatus
	// Lookback is how far back from now the fetch window reaches
	Lookback time.Duration
}

// RunOutcome summarizes one sync cycle
type RunOutcome struct {
	RunID     string
	Accounts  int
	Orders    int
	LineItems int
	Calls     int
	Failures  []fetcher.StatusFailure
	// Result is the write delegate's result, nil when nothing was written
	Result   *writer.Result
	Changed  bool
	Duration time.Duration
	Err      error
}

// Syncer defines the interface for running sync cycles
//
//go:generate mockgen -source=syncer.go -destination=../mocks/syncer.go -package=mocks -mock_names=Syncer=MockSyncer
type Syncer interface {
	// Run executes one cycle: fetch, normalize, write, notify
	Run(ctx context.Context, onProgress fetcher.ProgressFunc) (*RunOutcome, error)
	// RunAsync executes one cycle on its own goroutine and delivers the outcome on the returned channel
	RunAsync(ctx context.Context, onProgress fetcher.ProgressFunc) <-chan *RunOutcome
}

type syncer struct {
	credentials  store.CredentialsProvider
	orchestrator fetcher.Orchestrator
	delegate     writer.Delegate
	publisher    messaging.Publisher
	config       Config
	clock        adapter.Clock
	running      atomic.Bool
}

// NewSyncer creates a new order syncer
func NewSyncer(
	credentials store.CredentialsProvider,
	orchestrator fetcher.Orchestrator,
	delegate writer.Delegate,
	publisher messaging.Publisher,
	cfg Config,
	clock adapter.Clock,
) Syncer {
	return &syncer{
		credentials:  credentials,
		orchestrator: orchestrator,
		delegate:     delegate,
		publisher:    publisher,
		config:       cfg,
		clock:        clock,
	}
}

// RunAsync runs a cycle in the background; the channel receives exactly one outcome and is then closed
func (s *syncer) RunAsync(ctx context.Context, onProgress fetcher.ProgressFunc) <-chan *RunOutcome {
	out := make(chan *RunOutcome, 1)
	go func() {
		defer close(out)
		outcome, err := s.Run(ctx, onProgress)
		if outcome == nil {
			outcome = &RunOutcome{Err: err}
		}
		out <- outcome
	}()
	return out
}

// Run executes one sync cycle
func (s *syncer) Run(ctx context.Context, onProgress fetcher.ProgressFunc) (*RunOutcome, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	start := s.clock.Now()
	outcome := &RunOutcome{RunID: ulid.MustNewDefault(start).String()}
	ctx = logger.WithRun(ctx, logger.RunInfo{RunID: outcome.RunID, Platform: s.config.Platform})

	err := s.run(ctx, outcome, onProgress)
	outcome.Duration = s.clock.Since(start)
	outcome.Err = err

	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("sync run failed: %w", err), zap.Duration("duration", outcome.Duration))
		return outcome, err
	}

	logger.InfoCtx(ctx, "Sync run finished",
		zap.Int("accounts", outcome.Accounts),
		zap.Int("orders", outcome.Orders),
		zap.Int("line_items", outcome.LineItems),
		zap.Int("calls", outcome.Calls),
		zap.Int("failures", len(outcome.Failures)),
		zap.Bool("changed", outcome.Changed),
		zap.Duration("duration", outcome.Duration))

	return outcome, nil
}

func (s *syncer) run(ctx context.Context, outcome *RunOutcome, onProgress fetcher.ProgressFunc) error {
	accounts, err := s.credentials.ListCredentials(ctx, s.config.Platform)
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}
	outcome.Accounts = len(accounts)
	if len(accounts) == 0 {
		logger.InfoCtx(ctx, "No active accounts, nothing to sync")
		return nil
	}

	window := domain.WindowFromNow(s.clock.Now(), s.config.Lookback)
	fetched, err := s.orchestrator.FetchAll(ctx, s.config.Statuses, window, accounts, onProgress)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	outcome.Calls = fetched.Calls
	outcome.Failures = fetched.Failures
	outcome.Orders = len(fetched.Orders)
	outcome.LineItems = len(fetched.LineItems)

	if len(fetched.Orders) == 0 && len(fetched.LineItems) == 0 {
		return nil
	}

	req := &writer.Request{
		Orders:    normalize.ApplyAll(fetched.Orders, normalize.OrderRules()),
		LineItems: normalize.ApplyAll(fetched.LineItems, normalize.LineItemRules()),
	}

	result, err := s.delegate.Write(ctx, req)
	outcome.Result = result
	if err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}

	if result.Data == nil || !result.Data.Changed {
		return nil
	}
	outcome.Changed = true

	s.notify(ctx, outcome.RunID, result.Data)
	return nil
}

// notify publishes the orders-changed event; a failed publish does not fail the run
func (s *syncer) notify(ctx context.Context, runID string, data *writer.ResultData) {
	if s.publisher == nil {
		return
	}

	now := s.clock.Now()
	event := &domain.OrdersChangedEvent{
		ID:        ulid.MustNewDefault(now).String(),
		RunID:     runID,
		Platform:  s.config.Platform,
		Snapshots: data.Snapshots.Written,
		LineItems: data.LineItems.Written,
		Roots:     data.Roots.Written,
		Orders:    data.Orders,
		ChangedAt: now,
	}

	if err := s.publisher.PublishOrdersChanged(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish orders changed event",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
