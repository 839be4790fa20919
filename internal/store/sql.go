package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hermanjons/OrderScout-sub000/internal/config"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

const (
	defaultSnapshotBatchSize = 1
	defaultLineItemBatchSize = 500
)

var (
	snapshotUniqueKey = []string{"order_number", "last_modified_date", "account_id"}
	lineItemUniqueKey = []string{"order_number", "product_code", "line_status", "account_id"}
	rootUniqueKey     = []string{"order_number", "account_id"}
	accountUniqueKey  = []string{"platform", "external_account_id"}
	accountMergeCols  = []string{"name", "api_key", "api_secret", "active", "updated_at"}
)

type sqlStore struct {
	db                *gorm.DB
	snapshotBatchSize int
	lineItemBatchSize int
}

// NewStore creates a store backed by a gorm connection (SQLite or PostgreSQL)
func NewStore(db *gorm.DB, cfg config.StoreConfig) Store {
	s := &sqlStore{
		db:                db,
		snapshotBatchSize: cfg.SnapshotBatchSize,
		lineItemBatchSize: cfg.LineItemBatchSize,
	}
	if s.snapshotBatchSize <= 0 {
		s.snapshotBatchSize = defaultSnapshotBatchSize
	}
	if s.lineItemBatchSize <= 0 {
		s.lineItemBatchSize = defaultLineItemBatchSize
	}
	return s
}

// SaveOrderBatch writes snapshots first, then line items, then the roots of every order in the batch.
// All three writes ignore unique key conflicts, so replaying a batch changes nothing.
func (s *sqlStore) SaveOrderBatch(ctx context.Context, input SaveOrderBatchInput) (*SaveOrderBatchResult, error) {
	result := &SaveOrderBatchResult{}

	snapshots, err := Upsert(ctx, s.db, input.Snapshots, UpsertSpec{
		UniqueKey: snapshotUniqueKey,
		Policy:    ConflictIgnore,
		BatchSize: s.snapshotBatchSize,
	})
	result.Snapshots = snapshots
	if err != nil {
		return nil, fmt.Errorf("failed to save order snapshots: %w", err)
	}

	lineItems, err := Upsert(ctx, s.db, input.LineItems, UpsertSpec{
		UniqueKey: lineItemUniqueKey,
		Policy:    ConflictIgnore,
		BatchSize: s.lineItemBatchSize,
	})
	result.LineItems = lineItems
	if err != nil {
		return nil, fmt.Errorf("failed to save order line items: %w", err)
	}

	result.Orders = distinctOrders(input)
	roots := make([]schema.OrderRoot, 0, len(result.Orders))
	for _, key := range result.Orders {
		roots = append(roots, schema.OrderRoot{
			OrderNumber: key.OrderNumber,
			AccountID:   key.AccountID,
		})
	}

	rootResult, err := Upsert(ctx, s.db, roots, UpsertSpec{
		UniqueKey: rootUniqueKey,
		Policy:    ConflictIgnore,
		BatchSize: s.lineItemBatchSize,
	})
	result.Roots = rootResult
	if err != nil {
		return nil, fmt.Errorf("failed to save order roots: %w", err)
	}

	result.Changed = snapshots.Written > 0 || lineItems.Written > 0 || rootResult.Written > 0

	logger.InfoCtx(ctx, "Saved order batch",
		zap.Bool("changed", result.Changed),
		zap.Int64("snapshots_written", snapshots.Written),
		zap.Int64("snapshots_skipped", snapshots.Skipped),
		zap.Int64("snapshots_failed", snapshots.Failed),
		zap.Int64("line_items_written", lineItems.Written),
		zap.Int64("line_items_skipped", lineItems.Skipped),
		zap.Int64("line_items_failed", lineItems.Failed),
		zap.Int64("roots_written", rootResult.Written))

	return result, nil
}

// distinctOrders returns the (order_number, account_id) pairs of the batch in first-seen order
func distinctOrders(input SaveOrderBatchInput) []domain.OrderKey {
	seen := make(map[domain.OrderKey]struct{})
	var keys []domain.OrderKey

	add := func(key domain.OrderKey) {
		if key.OrderNumber == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, s := range input.Snapshots {
		add(domain.OrderKey{OrderNumber: s.OrderNumber, AccountID: s.AccountID})
	}
	for _, l := range input.LineItems {
		add(domain.OrderKey{OrderNumber: l.OrderNumber, AccountID: l.AccountID})
	}

	return keys
}

// latestSnapshotsQuery selects, per (order_number, account_id), the highest last_modified_date
func (s *sqlStore) latestSnapshotsQuery(accountID *int64) *gorm.DB {
	q := s.db.Model(&schema.OrderSnapshot{}).
		Select("order_number, account_id, MAX(last_modified_date) AS max_lmd").
		Group("order_number, account_id")
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}
	return q
}

// LatestByPredicate reduces the snapshots to the newest row per order and only then applies
// the status filter and the predicate, so an order whose newest snapshot does not match is
// never represented by an older one that does.
func (s *sqlStore) LatestByPredicate(ctx context.Context, filter LatestSnapshotFilter, predicate SnapshotPredicate) ([]schema.OrderSnapshot, error) {
	q := s.db.WithContext(ctx).
		Table("order_snapshots AS s").
		Select("s.*").
		Joins("JOIN (?) AS latest ON latest.order_number = s.order_number AND latest.account_id = s.account_id AND latest.max_lmd = s.last_modified_date",
			s.latestSnapshotsQuery(filter.AccountID))

	if len(filter.Statuses) > 0 {
		q = q.Where("s.status IN ?", filter.Statuses)
	}

	var rows []schema.OrderSnapshot
	if err := q.Order("s.last_modified_date DESC").Order("s.order_number").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}

	matched := make([]schema.OrderSnapshot, 0, len(rows))
	for i := range rows {
		if predicate != nil && !predicate(&rows[i]) {
			continue
		}
		matched = append(matched, rows[i])
		if filter.Limit > 0 && len(matched) == filter.Limit {
			break
		}
	}

	return matched, nil
}

// MarkSnapshotPrinted sets printed_at on the latest snapshot of an order
func (s *sqlStore) MarkSnapshotPrinted(ctx context.Context, orderNumber string, accountID int64, at time.Time) error {
	maxLMD := s.db.Model(&schema.OrderSnapshot{}).
		Select("MAX(last_modified_date)").
		Where("order_number = ? AND account_id = ?", orderNumber, accountID)

	res := s.db.WithContext(ctx).
		Model(&schema.OrderSnapshot{}).
		Where("order_number = ? AND account_id = ?", orderNumber, accountID).
		Where("last_modified_date = (?)", maxLMD).
		Update("printed_at", at.UTC())
	if res.Error != nil {
		return fmt.Errorf("failed to mark snapshot printed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSnapshotNotFound
	}

	return nil
}

// UpsertAccount creates or updates an account by platform and external account id
func (s *sqlStore) UpsertAccount(ctx context.Context, account *schema.Account) (*schema.Account, error) {
	if account == nil || account.Platform == "" || account.ExternalAccountID == "" {
		return nil, fmt.Errorf("account platform and external account id are required")
	}

	result, err := Upsert(ctx, s.db, []schema.Account{*account}, UpsertSpec{
		UniqueKey:     accountUniqueKey,
		Policy:        ConflictMerge,
		UpdateColumns: accountMergeCols,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}
	if result.Failed > 0 {
		return nil, fmt.Errorf("failed to upsert account %s/%s", account.Platform, account.ExternalAccountID)
	}

	var saved schema.Account
	err = s.db.WithContext(ctx).
		Where("platform = ? AND external_account_id = ?", account.Platform, account.ExternalAccountID).
		First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	return &saved, nil
}
