package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/marketplace"
)

// DefaultMaxPages caps a single (account, status) pagination loop
const DefaultMaxPages = 10000

// ProgressFunc receives the number of finished (account, status) loops out of total
type ProgressFunc func(completed, total int)

// StatusFailure records a pagination loop that ended on a failed page
type StatusFailure struct {
	AccountID int64
	Status    domain.OrderStatus
	Page      int
	Err       error
}

// FetchResult is the aggregate of one FetchAll call
type FetchResult struct {
	Orders    []domain.Order
	LineItems []domain.LineItem
	// Calls is the number of page requests issued
	Calls    int
	Failures []StatusFailure
}

// Orchestrator defines the interface for fetching every order of many accounts
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// FetchAll paginates every status of every account within window.
	// Failed pages are reported in FetchResult.Failures, not as an error.
	FetchAll(ctx context.Context, statuses []domain.OrderStatus, window domain.FetchWindow, accounts []domain.Credentials, onProgress ProgressFunc) (*FetchResult, error)
}

// Config holds orchestrator configuration
type Config struct {
	MaxPages int
}

type orchestrator struct {
	factory  marketplace.ClientFactory
	maxPages int
}

// NewOrchestrator creates a new fetch orchestrator
func NewOrchestrator(factory marketplace.ClientFactory, cfg Config) Orchestrator {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	return &orchestrator{
		factory:  factory,
		maxPages: cfg.MaxPages,
	}
}

// statusResult is the accumulator owned by one (account, status) task
type statusResult struct {
	orders    []domain.Order
	lineItems []domain.LineItem
	calls     int
	failure   *StatusFailure
}

// progress serializes progress callbacks across concurrent tasks
type progress struct {
	mu        sync.Mutex
	completed int
	total     int
	fn        ProgressFunc
}

func (p *progress) done() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	p.fn(p.completed, p.total)
}

// FetchAll fetches accounts one after another; the statuses of an account are fetched concurrently
func (o *orchestrator) FetchAll(ctx context.Context, statuses []domain.OrderStatus, window domain.FetchWindow, accounts []domain.Credentials, onProgress ProgressFunc) (*FetchResult, error) {
	if len(statuses) == 0 {
		return nil, domain.ErrNoStatuses
	}

	result := &FetchResult{}
	if len(accounts) == 0 {
		return result, nil
	}

	pool := pond.NewResultPool[*statusResult](len(statuses))
	defer pool.StopAndWait()

	prog := &progress{total: len(accounts) * len(statuses), fn: onProgress}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("fetch cancelled before account %d: %w", account.InternalID, err)
		}

		accountCtx := logger.WithAccount(ctx, account.InternalID)
		client := o.factory.NewClient(account)

		group := pool.NewGroup()
		for _, status := range statuses {
			group.Submit(func() *statusResult {
				res := o.fetchStatus(accountCtx, client, account.InternalID, status, window)
				prog.done()
				return res
			})
		}

		results, err := group.Wait()
		if err != nil {
			return result, fmt.Errorf("fetch tasks for account %d: %w", account.InternalID, err)
		}

		// Results come back in submission order, so the aggregate is deterministic
		orders, calls := len(result.Orders), result.Calls
		for _, res := range results {
			result.Orders = append(result.Orders, res.orders...)
			result.LineItems = append(result.LineItems, res.lineItems...)
			result.Calls += res.calls
			if res.failure != nil {
				result.Failures = append(result.Failures, *res.failure)
			}
		}

		logger.InfoCtx(accountCtx, "Fetched account orders",
			zap.Int("orders", len(result.Orders)-orders),
			zap.Int("calls", result.Calls-calls))
	}

	return result, nil
}

// fetchStatus paginates one status from page 0 until a page comes back empty
func (o *orchestrator) fetchStatus(ctx context.Context, client marketplace.Client, accountID int64, status domain.OrderStatus, window domain.FetchWindow) *statusResult {
	res := &statusResult{}

	for page := 0; ; page++ {
		if page >= o.maxPages {
			logger.WarnCtx(ctx, "Page limit reached, stopping pagination",
				zap.String("status", string(status)),
				zap.Int("max_pages", o.maxPages))
			return res
		}

		if err := ctx.Err(); err != nil {
			res.failure = &StatusFailure{AccountID: accountID, Status: status, Page: page, Err: err}
			return res
		}

		res.calls++
		pageResult, err := client.FetchPage(ctx, status, window, page)
		if err != nil {
			fields := []zap.Field{
				zap.String("status", string(status)),
				zap.Int("page", page),
				zap.Error(err),
			}
			var fetchErr *marketplace.FetchError
			if errors.As(err, &fetchErr) {
				fields = append(fields, zap.String("kind", string(fetchErr.Kind)), zap.Int("status_code", fetchErr.StatusCode))
			}
			logger.WarnCtx(ctx, "Order page fetch failed, skipping remaining pages", fields...)

			res.failure = &StatusFailure{AccountID: accountID, Status: status, Page: page, Err: err}
			return res
		}

		if len(pageResult.Content) == 0 {
			return res
		}

		for _, order := range pageResult.Content {
			order.AccountID = accountID
			order = PrepareOrder(order)
			res.orders = append(res.orders, order)
			res.lineItems = append(res.lineItems, LineItems(order)...)
		}
	}
}

// PrepareOrder completes the package history of order.
// A history with a single entry gets a leading Awaiting entry at time 0.
func PrepareOrder(order domain.Order) domain.Order {
	if len(order.PackageHistories) == 1 {
		histories := make([]domain.StatusHistoryEntry, 0, 2)
		histories = append(histories, domain.StatusHistoryEntry{
			CreatedDate: domain.HistorySentinelDate,
			Status:      domain.OrderStatusAwaiting,
		})
		order.PackageHistories = append(histories, order.PackageHistories...)
	}
	return order
}

// TaskDate returns the time order entered its current status, or 0 when the history has no such entry
func TaskDate(order domain.Order) int64 {
	for _, h := range order.PackageHistories {
		if h.Status == order.Status {
			return h.CreatedDate
		}
	}
	return 0
}

// LineItems flattens the lines of order with its order context
func LineItems(order domain.Order) []domain.LineItem {
	if len(order.Lines) == 0 {
		return nil
	}

	taskDate := TaskDate(order)
	items := make([]domain.LineItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, domain.LineItem{
			OrderNumber: order.OrderNumber,
			AccountID:   order.AccountID,
			PackageID:   order.PackageID,
			OrderLine:   line,
			TaskDate:    taskDate,
		})
	}
	return items
}
