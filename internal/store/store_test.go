package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hermanjons/OrderScout-sub000/internal/config"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestSnapshot creates a snapshot row for an order at a modification time
func buildTestSnapshot(orderNumber string, lastModified int64, accountID int64, status string) schema.OrderSnapshot {
	return schema.OrderSnapshot{
		OrderNumber:      orderNumber,
		LastModifiedDate: lastModified,
		AccountID:        accountID,
		PackageID:        3_000_000_000 + lastModified,
		Status:           status,
		OrderDate:        1_700_000_000_000,
		GrossAmount:      decimal.RequireFromString("120.50"),
		TotalDiscount:    decimal.RequireFromString("20"),
		TotalPrice:       decimal.RequireFromString("100.50"),
		CurrencyCode:     "TRY",
		ShipmentAddress:  datatypes.JSON(`{"city":"Istanbul","district":"Kadikoy"}`),
		PackageHistories: datatypes.JSON(`[{"createdDate":0,"status":"Awaiting"},{"createdDate":10,"status":"Created"}]`),
	}
}

// buildTestLineItem creates a line item row
func buildTestLineItem(orderNumber string, productCode int64, status string, accountID int64, quantity int) schema.OrderLineItem {
	return schema.OrderLineItem{
		OrderNumber:  orderNumber,
		ProductCode:  productCode,
		LineStatus:   status,
		AccountID:    accountID,
		Quantity:     quantity,
		ProductName:  "Ceramic mug",
		Barcode:      "8690000000001",
		Amount:       decimal.RequireFromString("49.90"),
		Price:        decimal.RequireFromString("49.90"),
		Commission:   decimal.RequireFromString("7.50"),
		CurrencyCode: "TRY",
		TaskDate:     20,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// =============================================================================
// Test: SaveOrderBatch
// =============================================================================

func testSaveOrderBatchIdempotent(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()
	input := SaveOrderBatchInput{
		Snapshots: []schema.OrderSnapshot{buildTestSnapshot("10001", 100, 1, "Created")},
	}

	first, err := store.SaveOrderBatch(ctx, input)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Equal(t, int64(1), first.Snapshots.Written)
	assert.Equal(t, int64(1), first.Roots.Written)

	second, err := store.SaveOrderBatch(ctx, input)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, UpsertResult{Written: 0, Skipped: 1}, second.Snapshots)
	assert.Equal(t, UpsertResult{Written: 0, Skipped: 1}, second.Roots)

	assert.Equal(t, int64(1), countRows(t, db, &schema.OrderSnapshot{}, "order_number = ?", "10001"))
	assert.Equal(t, int64(1), countRows(t, db, &schema.OrderRoot{}, "order_number = ?", "10001"))
}

func testSaveOrderBatchKeepsFirstSnapshot(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()

	original := buildTestSnapshot("10002", 100, 1, "Created")
	_, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{Snapshots: []schema.OrderSnapshot{original}})
	require.NoError(t, err)

	replay := original
	replay.Status = "Shipped"
	replay.TotalPrice = decimal.RequireFromString("1")
	result, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{Snapshots: []schema.OrderSnapshot{replay}})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	var stored schema.OrderSnapshot
	require.NoError(t, db.Where("order_number = ?", "10002").First(&stored).Error)
	assert.Equal(t, "Created", stored.Status)
	assert.True(t, decimal.RequireFromString("100.50").Equal(stored.TotalPrice))
	assert.JSONEq(t, `{"city":"Istanbul","district":"Kadikoy"}`, string(stored.ShipmentAddress))
}

func testLineItemCollapse(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()

	first, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		LineItems: []schema.OrderLineItem{buildTestLineItem("10003", 555, "Created", 1, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.LineItems.Written)

	second, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		LineItems: []schema.OrderLineItem{buildTestLineItem("10003", 555, "Created", 1, 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.LineItems.Written)
	assert.Equal(t, int64(1), second.LineItems.Skipped)
	assert.False(t, second.Changed)

	var items []schema.OrderLineItem
	require.NoError(t, db.Where("order_number = ?", "10003").Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	// A different line status is a different logical line
	third, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		LineItems: []schema.OrderLineItem{buildTestLineItem("10003", 555, "Shipped", 1, 5)},
	})
	require.NoError(t, err)
	assert.True(t, third.Changed)
	assert.Equal(t, int64(2), countRows(t, db, &schema.OrderLineItem{}, "order_number = ?", "10003"))
}

func testSaveOrderBatchDerivesRoots(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()

	result, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		Snapshots: []schema.OrderSnapshot{
			buildTestSnapshot("20001", 100, 1, "Created"),
			buildTestSnapshot("20001", 200, 1, "Shipped"),
			buildTestSnapshot("20001", 100, 2, "Created"),
		},
		LineItems: []schema.OrderLineItem{
			buildTestLineItem("20001", 1, "Created", 1, 1),
			buildTestLineItem("20002", 1, "Created", 1, 1),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.OrderKey{
		{OrderNumber: "20001", AccountID: 1},
		{OrderNumber: "20001", AccountID: 2},
		{OrderNumber: "20002", AccountID: 1},
	}, result.Orders)
	assert.Equal(t, int64(3), result.Roots.Written)
	assert.Equal(t, int64(3), result.Snapshots.Written)
	assert.Equal(t, int64(2), result.LineItems.Written)
	assert.Equal(t, int64(3), countRows(t, db, &schema.OrderRoot{}, ""))
}

func testSaveOrderBatchEmpty(t *testing.T, _ *gorm.DB, store Store) {
	result, err := store.SaveOrderBatch(context.Background(), SaveOrderBatchInput{})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Empty(t, result.Orders)
}

// =============================================================================
// Test: LatestByPredicate
// =============================================================================

func testLatestByPredicate(t *testing.T, _ *gorm.DB, store Store) {
	ctx := context.Background()

	_, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		Snapshots: []schema.OrderSnapshot{
			buildTestSnapshot("30001", 100, 1, "A"),
			buildTestSnapshot("30001", 300, 1, "C"),
			buildTestSnapshot("30001", 200, 1, "B"),
		},
	})
	require.NoError(t, err)

	t.Run("latest matches", func(t *testing.T) {
		rows, err := store.LatestByPredicate(ctx, LatestSnapshotFilter{}, StatusIs("C"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(300), rows[0].LastModifiedDate)
		assert.Equal(t, "C", rows[0].Status)
	})

	t.Run("older snapshot never surfaces", func(t *testing.T) {
		rows, err := store.LatestByPredicate(ctx, LatestSnapshotFilter{}, StatusIs("B"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("status filter applies after reduction", func(t *testing.T) {
		rows, err := store.LatestByPredicate(ctx, LatestSnapshotFilter{Statuses: []string{"A", "B"}}, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("nil predicate returns latest of every order", func(t *testing.T) {
		rows, err := store.LatestByPredicate(ctx, LatestSnapshotFilter{}, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(300), rows[0].LastModifiedDate)
	})
}

func testLatestByPredicatePerAccount(t *testing.T, _ *gorm.DB, store Store) {
	ctx := context.Background()

	_, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		Snapshots: []schema.OrderSnapshot{
			buildTestSnapshot("40001", 100, 1, "ReadyToShip"),
			buildTestSnapshot("40001", 500, 2, "Shipped"),
			buildTestSnapshot("40002", 100, 1, "Created"),
			buildTestSnapshot("40002", 400, 1, "ReadyToShip"),
			buildTestSnapshot("40003", 300, 1, "ReadyToShip"),
		},
	})
	require.NoError(t, err)

	rows, err := store.LatestByPredicate(ctx, LatestSnapshotFilter{}, StatusIs("ReadyToShip"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// Newest first
	assert.Equal(t, "40002", rows[0].OrderNumber)
	assert.Equal(t, "40003", rows[1].OrderNumber)
	assert.Equal(t, "40001", rows[2].OrderNumber)
	assert.Equal(t, int64(1), rows[2].AccountID)

	account := int64(2)
	rows, err = store.LatestByPredicate(ctx, LatestSnapshotFilter{AccountID: &account}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Shipped", rows[0].Status)

	rows, err = store.LatestByPredicate(ctx, LatestSnapshotFilter{Statuses: []string{"ReadyToShip"}, Limit: 1}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "40002", rows[0].OrderNumber)
}

// =============================================================================
// Test: MarkSnapshotPrinted
// =============================================================================

func testMarkSnapshotPrinted(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()

	_, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{
		Snapshots: []schema.OrderSnapshot{
			buildTestSnapshot("50001", 100, 1, "Created"),
			buildTestSnapshot("50001", 200, 1, "ReadyToShip"),
		},
	})
	require.NoError(t, err)

	printedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkSnapshotPrinted(ctx, "50001", 1, printedAt))

	var rows []schema.OrderSnapshot
	require.NoError(t, db.Where("order_number = ?", "50001").Order("last_modified_date").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].PrintedAt)
	require.NotNil(t, rows[1].PrintedAt)
	assert.WithinDuration(t, printedAt, *rows[1].PrintedAt, time.Second)

	err = store.MarkSnapshotPrinted(ctx, "50001", 2, printedAt)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

// =============================================================================
// Test: Accounts
// =============================================================================

func testAccounts(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()

	first, err := store.UpsertAccount(ctx, &schema.Account{
		Platform:          "trendyol",
		ExternalAccountID: "111",
		Name:              "Acme",
		APIKey:            "key-1",
		APISecret:         "secret-1",
		Active:            true,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	updated, err := store.UpsertAccount(ctx, &schema.Account{
		Platform:          "trendyol",
		ExternalAccountID: "111",
		Name:              "Acme Ltd",
		APIKey:            "key-2",
		APISecret:         "secret-2",
		Active:            true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "key-2", updated.APIKey)

	_, err = store.UpsertAccount(ctx, &schema.Account{
		Platform:          "trendyol",
		ExternalAccountID: "222",
		Name:              "Dormant",
		APIKey:            "key-3",
		APISecret:         "secret-3",
	})
	require.NoError(t, err)

	second, err := store.UpsertAccount(ctx, &schema.Account{
		Platform:          "trendyol",
		ExternalAccountID: "333",
		Name:              "Beta",
		APIKey:            "key-4",
		APISecret:         "secret-4",
		Active:            true,
	})
	require.NoError(t, err)

	_, err = store.UpsertAccount(ctx, &schema.Account{Platform: "trendyol"})
	assert.Error(t, err)

	creds, err := NewCredentialsProvider(db).ListCredentials(ctx, "trendyol")
	require.NoError(t, err)
	assert.Equal(t, []domain.Credentials{
		{InternalID: first.ID, APIKey: "key-2", APISecret: "secret-2", ExternalAccountID: "111"},
		{InternalID: second.ID, APIKey: "key-4", APISecret: "secret-4", ExternalAccountID: "333"},
	}, creds)

	none, err := NewCredentialsProvider(db).ListCredentials(ctx, "hepsiburada")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// =============================================================================
// Test: decoded wire records
// =============================================================================

func testSaveDecodedRecords(t *testing.T, db *gorm.DB, store Store) {
	ctx := context.Background()

	snapshots, report := DecodeRecords[schema.OrderSnapshot]([]map[string]any{
		{
			"id":               "3100000001",
			"orderNumber":      "60001",
			"accountId":        7,
			"lastModifiedDate": 1_700_000_000_500,
			"status":           "Shipped",
			"totalPrice":       "249.90",
			"3pByTrendyol":     true,
			"shipmentAddress":  map[string]any{"city": "Ankara"},
			"packageHistories": []any{map[string]any{"createdDate": 0, "status": "Awaiting"}},
			"lines":            []any{},
		},
	}, SnapshotRenames)
	require.Len(t, snapshots, 1)
	assert.Equal(t, []string{"lines"}, report.DroppedFields())

	items, _ := DecodeRecords[schema.OrderLineItem]([]map[string]any{
		{
			"id":                      "99",
			"orderNumber":             "60001",
			"accountId":               7,
			"productCode":             0,
			"orderLineItemStatusName": "Unknown",
			"quantity":                2,
			"price":                   "124.95",
			"taskDate":                1_700_000_000_400,
		},
	}, LineItemRenames)
	require.Len(t, items, 1)

	result, err := store.SaveOrderBatch(ctx, SaveOrderBatchInput{Snapshots: snapshots, LineItems: items})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	var snapshot schema.OrderSnapshot
	require.NoError(t, db.Where("order_number = ?", "60001").First(&snapshot).Error)
	assert.Equal(t, int64(3100000001), snapshot.PackageID)
	assert.True(t, snapshot.ThirdPartyFulfilled)
	assert.True(t, decimal.RequireFromString("249.90").Equal(snapshot.TotalPrice))
	assert.JSONEq(t, `{"city":"Ankara"}`, string(snapshot.ShipmentAddress))

	var item schema.OrderLineItem
	require.NoError(t, db.Where("order_number = ?", "60001").First(&item).Error)
	assert.Equal(t, int64(99), item.LineID)
	assert.Equal(t, "Unknown", item.LineStatus)
	assert.Equal(t, int64(1_700_000_000_400), item.TaskDate)
}

// RunStoreTests runs the store suite against the database returned by initDB.
// initDB must return an empty migrated database for every call.
func RunStoreTests(t *testing.T, initDB func(t *testing.T) *gorm.DB) {
	tests := []struct {
		name string
		fn   func(*testing.T, *gorm.DB, Store)
	}{
		{"SaveOrderBatchIdempotent", testSaveOrderBatchIdempotent},
		{"SaveOrderBatchKeepsFirstSnapshot", testSaveOrderBatchKeepsFirstSnapshot},
		{"LineItemCollapse", testLineItemCollapse},
		{"SaveOrderBatchDerivesRoots", testSaveOrderBatchDerivesRoots},
		{"SaveOrderBatchEmpty", testSaveOrderBatchEmpty},
		{"LatestByPredicate", testLatestByPredicate},
		{"LatestByPredicatePerAccount", testLatestByPredicatePerAccount},
		{"MarkSnapshotPrinted", testMarkSnapshotPrinted},
		{"Accounts", testAccounts},
		{"SaveDecodedRecords", testSaveDecodedRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := initDB(t)
			tt.fn(t, db, NewStore(db, config.StoreConfig{SnapshotBatchSize: 1, LineItemBatchSize: 500}))
		})
	}
}
