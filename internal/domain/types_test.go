package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidOrderStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   OrderStatus
		expected bool
	}{
		{name: "created", status: OrderStatusCreated, expected: true},
		{name: "ready to ship", status: OrderStatusReadyToShip, expected: true},
		{name: "awaiting", status: OrderStatusAwaiting, expected: true},
		{name: "empty", status: OrderStatus(""), expected: false},
		{name: "wrong case", status: OrderStatus("shipped"), expected: false},
		{name: "unknown", status: OrderStatus("Lost"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidOrderStatus(tt.status))
		})
	}
}

func TestParseOrderStatuses(t *testing.T) {
	statuses, err := ParseOrderStatuses([]string{"Created", "Shipped"})
	require.NoError(t, err)
	assert.Equal(t, []OrderStatus{OrderStatusCreated, OrderStatusShipped}, statuses)

	_, err = ParseOrderStatuses([]string{"Created", "Lost"})
	require.Error(t, err)
	var invalid ErrInvalidOrderStatus
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Lost", invalid.Status)
}

func TestWindowFromNow(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	window := WindowFromNow(now, time.Hour)

	assert.Equal(t, int64(1_700_000_000_000), window.Start)
	assert.Equal(t, int64(1_700_000_000_000-3_600_000), window.End)
	assert.Greater(t, window.Start, window.End)
}

func TestOrder_UnmarshalJSON_KeepsUnknownFields(t *testing.T) {
	raw := `{
		"id": 3312,
		"orderNumber": "10654411",
		"status": "Shipped",
		"lastModifiedDate": 1700000000000,
		"grossAmount": 149.90,
		"3pByTrendyol": false,
		"micro": true,
		"lines": [{"id": 1, "quantity": 2, "productCode": 555, "orderLineItemStatusName": "Shipped", "price": "74.95"}],
		"packageHistories": [{"createdDate": 10, "status": "Created"}]
	}`

	var order Order
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	assert.Equal(t, int64(3312), order.PackageID)
	assert.Equal(t, "10654411", order.OrderNumber)
	assert.Equal(t, OrderStatusShipped, order.Status)
	assert.True(t, decimal.RequireFromString("149.90").Equal(order.GrossAmount))
	require.Len(t, order.Lines, 1)
	require.NotNil(t, order.Lines[0].ProductCode)
	assert.Equal(t, int64(555), *order.Lines[0].ProductCode)
	assert.True(t, decimal.RequireFromString("74.95").Equal(order.Lines[0].Price))

	require.Len(t, order.Extra, 2)
	assert.JSONEq(t, "false", string(order.Extra["3pByTrendyol"]))
	assert.JSONEq(t, "true", string(order.Extra["micro"]))
	_, known := order.Extra["orderNumber"]
	assert.False(t, known)
}

func TestOrder_MarshalJSON_EmitsExtra(t *testing.T) {
	order := Order{
		OrderNumber: "A-1",
		AccountID:   4,
		Extra: map[string]json.RawMessage{
			"3pByTrendyol": json.RawMessage(`true`),
			"orderNumber":  json.RawMessage(`"shadowed"`),
		},
	}

	data, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "A-1", decoded["orderNumber"])
	assert.Equal(t, true, decoded["3pByTrendyol"])
	assert.Equal(t, float64(4), decoded["accountId"])
}

func TestLineItem_MarshalJSON_FlattensLine(t *testing.T) {
	code := int64(77)
	status := "Created"
	item := LineItem{
		OrderNumber: "A-1",
		AccountID:   2,
		PackageID:   9,
		OrderLine: OrderLine{
			LineID:      5,
			Quantity:    1,
			ProductCode: &code,
			Status:      &status,
		},
		TaskDate: 20,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(5), decoded["id"])
	assert.Equal(t, float64(77), decoded["productCode"])
	assert.Equal(t, "Created", decoded["orderLineItemStatusName"])
	assert.Equal(t, float64(20), decoded["taskDate"])
	assert.Equal(t, float64(9), decoded["packageId"])
}
