package store

import (
	"context"
	"time"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

// Store defines the interface for order persistence operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// SaveOrderBatch inserts snapshots and line items with ignore-on-conflict and derives the order roots
	SaveOrderBatch(ctx context.Context, input SaveOrderBatchInput) (*SaveOrderBatchResult, error)
	// LatestByPredicate returns the latest snapshot per order that satisfies the filter and predicate
	LatestByPredicate(ctx context.Context, filter LatestSnapshotFilter, predicate SnapshotPredicate) ([]schema.OrderSnapshot, error)
	// MarkSnapshotPrinted sets printed_at on the latest snapshot of an order
	MarkSnapshotPrinted(ctx context.Context, orderNumber string, accountID int64, at time.Time) error
	// UpsertAccount creates or updates an account by platform and external account id
	UpsertAccount(ctx context.Context, account *schema.Account) (*schema.Account, error)
}

// SaveOrderBatchInput represents the records of one write request
type SaveOrderBatchInput struct {
	Snapshots []schema.OrderSnapshot
	LineItems []schema.OrderLineItem
}

// SaveOrderBatchResult represents the outcome of SaveOrderBatch
type SaveOrderBatchResult struct {
	// Changed is true when at least one row was inserted
	Changed   bool
	Snapshots UpsertResult
	LineItems UpsertResult
	Roots     UpsertResult
	// Orders is the distinct set of orders present in the batch
	Orders []domain.OrderKey
}

// LatestSnapshotFilter narrows the latest-snapshot query.
// Filters apply after the per-order reduction.
type LatestSnapshotFilter struct {
	AccountID *int64
	Statuses  []string
	Limit     int
}

// SnapshotPredicate is evaluated against the latest snapshot of each order
type SnapshotPredicate func(snapshot *schema.OrderSnapshot) bool

// StatusIs returns a predicate matching snapshots in any of the given statuses
func StatusIs(statuses ...string) SnapshotPredicate {
	return func(snapshot *schema.OrderSnapshot) bool {
		for _, s := range statuses {
			if snapshot.Status == s {
				return true
			}
		}
		return false
	}
}
